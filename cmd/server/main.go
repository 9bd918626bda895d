package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ChamsBouzaiene/insightd/internal/config"
	"github.com/ChamsBouzaiene/insightd/internal/dataset"
	"github.com/ChamsBouzaiene/insightd/internal/engine"
	"github.com/ChamsBouzaiene/insightd/internal/history"
	"github.com/ChamsBouzaiene/insightd/internal/insight"
	"github.com/ChamsBouzaiene/insightd/internal/orchestrator"
	"github.com/ChamsBouzaiene/insightd/internal/providers"
	"github.com/ChamsBouzaiene/insightd/internal/runner"
	"github.com/ChamsBouzaiene/insightd/internal/server"
	"github.com/ChamsBouzaiene/insightd/internal/tools"
	"github.com/ChamsBouzaiene/insightd/internal/visualization"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	addrFlag := flag.String("addr", "", "HTTP listen address (overrides INSIGHTD_ADDR)")
	flag.Parse()

	if err := run(*addrFlag); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(addrOverride string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addrOverride != "" {
		cfg.Addr = addrOverride
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	llm, model, err := providers.NewLLMClientFromEnv(ctx)
	if err != nil {
		return err
	}
	log.Printf("🤖 using model %s", model)

	store, err := history.NewStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	searchIndex, err := history.NewSearchIndex(cfg.IndexPath)
	if err != nil {
		return err
	}
	defer searchIndex.Close()

	session := dataset.NewSession()
	r := runner.New(session)
	registry := tools.NewAnalysisRegistry(session, r)

	watcher, err := dataset.NewFileWatcher(session)
	if err != nil {
		return err
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	hooks := engine.Hooks{&engine.LoggerHook{L: log.Default()}}

	insightPipe := insight.New(llm, model, registry, hooks, cfg.MaxSteps)
	vizPipe := visualization.New(llm, model, registry, hooks, cfg.MaxSteps, log.Default())

	orch := orchestrator.New(insightPipe, vizPipe, store, searchIndex, log.Default())

	srv := server.New(orch, store, searchIndex, watcher, cfg.UploadDir, cfg.MaxUploadBytes, log.Default())

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("👋 shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}
