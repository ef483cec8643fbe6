package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrtrack/qrcode-service/internal/api/handlers"
	"github.com/qrtrack/qrcode-service/internal/api/middleware"
	"github.com/qrtrack/qrcode-service/internal/catalog"
	"github.com/qrtrack/qrcode-service/internal/repository"
	"github.com/qrtrack/qrcode-service/internal/service"
)

// NewRouter builds the HTTP router for the qrcode-service.
func NewRouter(db *sql.DB, cat catalog.Client, images service.ImageRenderer) http.Handler {
	r := chi.NewRouter()

	repo := repository.NewQRCodeRepo(db)
	svc := service.NewQRCodeService(repo, cat, images)
	qrHandler := handlers.NewQRCodeHandler(svc)

	// Merchant endpoints, tenant-scoped
	r.Route("/qrcodes", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.ShopScope)
			r.Post("/", qrHandler.CreateQRCode)
			r.Get("/", qrHandler.ListQRCodes)
			r.Get("/{id}", qrHandler.GetQRCode)
			r.Put("/{id}", qrHandler.UpdateQRCode)
			r.Delete("/{id}", qrHandler.DeleteQRCode)
		})

		// Public tracking redirect, hit by scanning devices
		r.Get("/{id}/scan", qrHandler.ScanQRCode)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
