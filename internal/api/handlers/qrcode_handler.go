package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/qrtrack/qrcode-service/internal/api/middleware"
	"github.com/qrtrack/qrcode-service/internal/models"
	"github.com/qrtrack/qrcode-service/internal/repository"
	"github.com/qrtrack/qrcode-service/internal/service"
)

// --- Request / Response DTOs ---

type QRCodeRequest struct {
	Title            string `json:"title"`
	Destination      string `json:"destination"`
	ProductID        string `json:"productId"`
	ProductHandle    string `json:"productHandle"`
	ProductVariantID string `json:"productVariantId"`
}

// Partial update body: absent fields stay untouched.
type QRCodeUpdateRequest struct {
	Title            *string `json:"title"`
	Destination      *string `json:"destination"`
	ProductID        *string `json:"productId"`
	ProductHandle    *string `json:"productHandle"`
	ProductVariantID *string `json:"productVariantId"`
}

type QRCodeResponse struct {
	ID               int       `json:"id"`
	Shop             string    `json:"shop"`
	Title            string    `json:"title"`
	Destination      string    `json:"destination"`
	ProductID        string    `json:"productId"`
	ProductHandle    string    `json:"productHandle"`
	ProductVariantID string    `json:"productVariantId"`
	Scans            int       `json:"scans"`
	CreatedAt        time.Time `json:"createdAt"`
	ProductDeleted   bool      `json:"productDeleted"`
	ProductTitle     *string   `json:"productTitle"`
	ProductImage     *string   `json:"productImage"`
	ProductAlt       *string   `json:"productAlt"`
	DestinationURL   string    `json:"destinationUrl"`
	Image            string    `json:"image"`
}

func toResponse(s *models.SupplementedQRCode) QRCodeResponse {
	return QRCodeResponse{
		ID:               s.ID,
		Shop:             s.Shop,
		Title:            s.Title,
		Destination:      s.Destination,
		ProductID:        s.ProductID,
		ProductHandle:    s.ProductHandle,
		ProductVariantID: s.ProductVariantID,
		Scans:            s.Scans,
		CreatedAt:        s.CreatedAt,
		ProductDeleted:   s.ProductDeleted,
		ProductTitle:     s.ProductTitle,
		ProductImage:     s.ProductImage,
		ProductAlt:       s.ProductAlt,
		DestinationURL:   s.DestinationURL,
		Image:            s.Image,
	}
}

// --- Handler struct & constructor ---

// QRCodeService is what the handlers need from the service layer; an
// interface so tests can plug in fakes.
type QRCodeService interface {
	Create(ctx context.Context, shop string, draft models.QRCodeDraft) (int, models.ValidationErrors, error)
	Get(ctx context.Context, shop string, id int) (*models.SupplementedQRCode, error)
	List(ctx context.Context, shop string) ([]models.SupplementedQRCode, error)
	Update(ctx context.Context, shop string, id int, fields map[string]string) error
	Delete(ctx context.Context, shop string, id int) error
	Scan(ctx context.Context, id int) (string, error)
}

type QRCodeHandler struct {
	service QRCodeService
}

func NewQRCodeHandler(svc QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{service: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeError maps the error taxonomy onto HTTP statuses: absence → 404,
// resolution failures → 422 (the record is broken until the merchant edits
// it), everything else is a transport failure → 502.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	case errors.Is(err, models.ErrUnrecognizedVariantID), errors.Is(err, service.ErrUnknownDestination):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream_failure"})
	}
}

// --- Handlers ---

// CreateQRCode handles POST /qrcodes
func (h *QRCodeHandler) CreateQRCode(w http.ResponseWriter, r *http.Request) {
	var req QRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}

	draft := models.QRCodeDraft{
		Title:            req.Title,
		Destination:      req.Destination,
		ProductID:        req.ProductID,
		ProductHandle:    req.ProductHandle,
		ProductVariantID: req.ProductVariantID,
	}

	shop := middleware.Shop(r.Context())
	id, verrs, err := h.service.Create(r.Context(), shop, draft)
	if err != nil {
		writeError(w, err)
		return
	}
	if verrs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": verrs})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// GetQRCode handles GET /qrcodes/{id}
func (h *QRCodeHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}

	sup, err := h.service.Get(r.Context(), middleware.Shop(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(sup))
}

// ListQRCodes handles GET /qrcodes
func (h *QRCodeHandler) ListQRCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.List(r.Context(), middleware.Shop(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]QRCodeResponse, 0, len(codes))
	for i := range codes {
		out = append(out, toResponse(&codes[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateQRCode handles PUT /qrcodes/{id}
func (h *QRCodeHandler) UpdateQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}

	var req QRCodeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}

	fields := map[string]string{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Destination != nil {
		fields["destination"] = *req.Destination
	}
	if req.ProductID != nil {
		fields["productId"] = *req.ProductID
	}
	if req.ProductHandle != nil {
		fields["productHandle"] = *req.ProductHandle
	}
	if req.ProductVariantID != nil {
		fields["productVariantId"] = *req.ProductVariantID
	}

	if err := h.service.Update(r.Context(), middleware.Shop(r.Context()), id, fields); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

// DeleteQRCode handles DELETE /qrcodes/{id}
func (h *QRCodeHandler) DeleteQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}

	if err := h.service.Delete(r.Context(), middleware.Shop(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ScanQRCode handles GET /qrcodes/{id}/scan — the public tracking endpoint a
// physical scan hits. The scan is counted before the destination is
// resolved, so a record with a broken destination still counts attempts.
func (h *QRCodeHandler) ScanQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}

	url, err := h.service.Scan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}
