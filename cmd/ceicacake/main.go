package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/auth"
	"github.com/ceica/ceicacake/internal/config"
	"github.com/ceica/ceicacake/internal/database"
	"github.com/ceica/ceicacake/internal/database/repository"
	"github.com/ceica/ceicacake/internal/tui"
	"github.com/ceica/ceicacake/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog := logger.Must(cfg.Log.Path, cfg.Log.Level)
	defer zlog.Sync()

	tz, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		zlog.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.UI.Timezone))
		tz = time.Local
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// repositories
	customerCache := repository.NewCustomerCacheRepo(db)
	productCache := repository.NewProductCacheRepo(db)
	presetRepo := repository.NewPresetRepo(db)

	session := auth.NewSession(auth.NewTokenStore(""), zlog.Named("auth"))
	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	}, session, zlog.Named("api"))
	client.SetUnauthorizedHook(session.Invalidate)
	session.Restore()

	app := tui.New(ctx, cfg, client, session,
		tui.Repos{Customers: customerCache, Products: productCache, Presets: presetRepo},
		tz, zlog.Named("tui"),
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
