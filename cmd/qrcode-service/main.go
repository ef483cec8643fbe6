package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/qrtrack/qrcode-service/internal/api"
	"github.com/qrtrack/qrcode-service/internal/api/middleware"
	"github.com/qrtrack/qrcode-service/internal/cache"
	"github.com/qrtrack/qrcode-service/internal/catalog"
	"github.com/qrtrack/qrcode-service/internal/qrimage"
	"github.com/qrtrack/qrcode-service/pkg/config"
	"github.com/qrtrack/qrcode-service/pkg/db"
)

func main() {
	config.LoadEnv()

	appCfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dbCfg, _ := db.LoadPostgresConfig()
	conn, err := db.NewPostgresConnection(dbCfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer conn.Close()

	cat := catalog.NewGraphQLClient(appCfg.CatalogURL, appCfg.CatalogToken, appCfg.CatalogTimeout)

	images, err := qrimage.NewGenerator(appCfg.AppURL, cache.NewImageCache())
	if err != nil {
		log.Fatalf("image generator: %v", err)
	}

	handler := api.NewRouter(conn, cat, images)

	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Mount("/", handler)

	srv := &http.Server{
		Addr:         appCfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		// we received an interrupt signal, shut down.
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("starting qrcode-service on %s", appCfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %s\n", err)
	}

	<-idleConnsClosed
	log.Println("server stopped")
}
