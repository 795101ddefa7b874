package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/plychess-backend/internal/config"
	"github.com/benbeisheim/plychess-backend/internal/controller"
	"github.com/benbeisheim/plychess-backend/internal/service"
	"github.com/benbeisheim/plychess-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var archive *store.Storage
	if cfg.DataDir == "" {
		log.Println("no data directory set, archiving games in memory")
		archive, err = store.OpenInMemory()
	} else {
		archive, err = store.Open(cfg.DataDir)
	}
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer archive.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	gameManager := service.NewGameManager(ctx, service.ManagerOptions{
		BotDelay:      cfg.BotDelay,
		MatchInterval: cfg.MatchInterval,
		Archive:       archive,
	})
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	controller.RegisterRoutes(app, gameService, splitOrigins(cfg.AllowOrigins))

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Printf("listen: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
