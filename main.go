package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

func main() {
	var (
		sshPort       = flag.Int("port", 2222, "SSH server port")
		local         = flag.Bool("local", false, "run in local mode (generates/uses local host key instead of Secret Manager)")
		promotionPawn = flag.Bool("promotion-mimics-pawn", false, "a promoted pawn holds its player to pawn movement on their next turn, instead of queen movement")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var hostKeyData []byte
	var err error
	if *local {
		hostKeyData, err = loadLocalHostKey()
		if err != nil {
			log.Fatalf("failed to generate/load host key: %v", err)
		}
		log.Println("Running in local mode")
	} else {
		hostKeyData, err = loadCloudHostKey(ctx)
		if err != nil {
			log.Fatalf("failed to load host key: %v", err)
		}
		log.Println("Running in cloud mode with Secret Manager")
	}

	if *promotionPawn {
		GetGameManager().SetPromotionPolicy(PromotionMimicsPawn)
	}

	// Result store is best-effort; the server plays games fine without it.
	if dir, err := dataDir(); err != nil {
		log.Printf("result store disabled: %v", err)
	} else if store, err := OpenResultStore(filepath.Join(dir, "results")); err != nil {
		log.Printf("result store disabled: %v", err)
	} else {
		defer store.Close()
		GetGameManager().SetResultStore(store)
	}

	s, err := newSSHServer(*sshPort, hostKeyData)
	if err != nil {
		log.Fatalln(err)
	}
	go func() {
		log.Printf("Starting SSH mimic chess server on :%d", *sshPort)
		if err := s.ListenAndServe(); err != nil {
			log.Fatalln(err)
		}
	}()

	if httpPort := os.Getenv("PORT"); httpPort != "" {
		go func() {
			log.Print("Starting WebSocket to SSH proxy on port ", httpPort)
			if err := serveWebSocketProxy(*sshPort, httpPort); err != nil {
				log.Fatalln("HTTP server error:", err)
			}
		}()
	}

	<-ctx.Done()
	log.Println("Stopping SSH server")

	tctx, tcancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer tcancel()
	if err := s.Shutdown(tctx); err != nil {
		log.Fatalln(err)
	}
}
