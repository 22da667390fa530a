package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/visitor-pass-service/internal/backfill"
	"github.com/iliyamo/visitor-pass-service/internal/config"
	"github.com/iliyamo/visitor-pass-service/internal/database"
	"github.com/iliyamo/visitor-pass-service/internal/handler"
	"github.com/iliyamo/visitor-pass-service/internal/qr"
	"github.com/iliyamo/visitor-pass-service/internal/queue"
	"github.com/iliyamo/visitor-pass-service/internal/repository"
	"github.com/iliyamo/visitor-pass-service/internal/router"
	queue_publisher "github.com/iliyamo/visitor-pass-service/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil client disables the cache and rate limiter (they fail open).
	rdb := config.NewRedisClient()

	passes := repository.NewPassRepo(db)
	visitors := repository.NewVisitorRepo(db)
	hosts := repository.NewHostRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	encoder := qr.NewPNGEncoder(cfg.QRImageSize)

	passHandler := handler.NewPassHandler(passes, encoder, queue_publisher.PublishPassIssued)
	dirHandler := handler.NewDirectoryHandler(visitors, hosts, appointments)
	authHandler := handler.NewAuthHandler(cfg, users, tokens)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAPI(e, passHandler, dirHandler, cfg, rdb)

	// Repair passes whose QR image generation was interrupted.
	go backfill.Run(context.Background(), passes, encoder)

	// Consume pass.issued events into logs/visits.log.
	go func() {
		if err := queue.StartVisitConsumer(); err != nil {
			log.Printf("visit-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
