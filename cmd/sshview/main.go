// Command sshview serves the raycaster over SSH. Connect with a truecolor
// terminal: ssh -t -p 2222 localhost
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"raycaster/internal/config"
	"raycaster/internal/scene"
	"raycaster/internal/sshview"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	addr := flag.String("addr", "", "listen address, overrides ssh.addr")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	cfg := config.MustLoadConfig(*configPath)
	if *addr != "" {
		cfg.SSH.Addr = *addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.SSH.Addr = ":" + port
	}

	sc, err := scene.Load(cfg)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	server, err := sshview.NewServer(cfg, sc)
	if err != nil {
		log.Fatalf("SSH server error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("[SSH] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Fatalf("SSH server error: %v", err)
	}
}
