package service

import (
	"context"
	"fmt"
	"time"

	"github.com/qrtrack/qrcode-service/internal/catalog"
	"github.com/qrtrack/qrcode-service/internal/concurrency"
	"github.com/qrtrack/qrcode-service/internal/models"
)

// Repo operations required by the service (interfaces to allow mocking).
type QRCodeRepo interface {
	Create(ctx context.Context, shop string, draft models.QRCodeDraft) (int, error)
	GetByID(ctx context.Context, id int) (*models.QRCode, error)
	GetForShop(ctx context.Context, shop string, id int) (*models.QRCode, error)
	ListByShop(ctx context.Context, shop string) ([]models.QRCode, error)
	Update(ctx context.Context, shop string, id int, fields map[string]string) error
	Delete(ctx context.Context, shop string, id int) error
	IncrementScans(ctx context.Context, id int) error
}

type ImageRenderer interface {
	ScanURL(id int) string
	DataURL(target string) (string, error)
}

const (
	supplementTimeout = 5 * time.Second
	listConcurrency   = 8
)

type QRCodeService struct {
	repo    QRCodeRepo
	catalog catalog.Client
	images  ImageRenderer
}

func NewQRCodeService(repo QRCodeRepo, cat catalog.Client, images ImageRenderer) *QRCodeService {
	return &QRCodeService{
		repo:    repo,
		catalog: cat,
		images:  images,
	}
}

// Create validates the draft and persists it. A non-nil ValidationErrors map
// means nothing was written and the merchant should correct the listed
// fields; the error return is reserved for store failures.
func (s *QRCodeService) Create(ctx context.Context, shop string, draft models.QRCodeDraft) (int, models.ValidationErrors, error) {
	if errs := models.Validate(draft); errs != nil {
		return 0, errs, nil
	}

	id, err := s.repo.Create(ctx, shop, draft)
	if err != nil {
		return 0, nil, err
	}
	return id, nil, nil
}

func (s *QRCodeService) Get(ctx context.Context, shop string, id int) (*models.SupplementedQRCode, error) {
	q, err := s.repo.GetForShop(ctx, shop, id)
	if err != nil {
		return nil, err
	}
	return s.supplement(ctx, q)
}

// List returns every record for the shop, newest first, each supplemented.
// Supplementation fans out over a bounded pool since each record needs an
// independent catalog round trip.
func (s *QRCodeService) List(ctx context.Context, shop string) ([]models.SupplementedQRCode, error) {
	codes, err := s.repo.ListByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return []models.SupplementedQRCode{}, nil
	}

	out := make([]models.SupplementedQRCode, len(codes))
	errs := make([]error, len(codes))
	concurrency.ForEach(ctx, listConcurrency, len(codes), func(ctx context.Context, i int) {
		sup, err := s.supplement(ctx, &codes[i])
		if err != nil {
			errs[i] = err
			return
		}
		out[i] = *sup
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *QRCodeService) Update(ctx context.Context, shop string, id int, fields map[string]string) error {
	return s.repo.Update(ctx, shop, id, fields)
}

func (s *QRCodeService) Delete(ctx context.Context, shop string, id int) error {
	return s.repo.Delete(ctx, shop, id)
}

// Scan runs the tracking flow for one physical scan: look the record up by
// id, count the scan, then resolve the destination. The increment happens
// before resolution on purpose — the counter reflects "a scan happened",
// independent of whether the visitor reaches a destination.
func (s *QRCodeService) Scan(ctx context.Context, id int) (string, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.repo.IncrementScans(ctx, id); err != nil {
		return "", fmt.Errorf("count scan: %w", err)
	}

	return DestinationURL(q)
}

// supplement joins the stored record with live catalog data and the rendered
// code image. The catalog query and the render are independent, so they run
// concurrently under one deadline.
func (s *QRCodeService) supplement(ctx context.Context, q *models.QRCode) (*models.SupplementedQRCode, error) {
	ctx, cancel := context.WithTimeout(ctx, supplementTimeout)
	defer cancel()

	type imageResult struct {
		img string
		err error
	}
	imageCh := make(chan imageResult, 1)
	go func() {
		img, err := s.images.DataURL(s.images.ScanURL(q.ID))
		imageCh <- imageResult{img: img, err: err}
	}()

	product, err := s.catalog.Product(ctx, q.ProductID)
	if err != nil {
		return nil, fmt.Errorf("supplement qr code %d: %w", q.ID, err)
	}

	destinationURL, err := DestinationURL(q)
	if err != nil {
		return nil, err
	}

	var img imageResult
	select {
	case img = <-imageCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if img.err != nil {
		return nil, img.err
	}

	sup := &models.SupplementedQRCode{
		QRCode:         *q,
		ProductDeleted: product == nil,
		DestinationURL: destinationURL,
		Image:          img.img,
	}
	if product != nil {
		sup.ProductTitle = &product.Title
		sup.ProductImage = product.ImageURL
		sup.ProductAlt = product.ImageAlt
	}
	return sup, nil
}
