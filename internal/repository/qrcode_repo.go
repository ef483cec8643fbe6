package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/qrtrack/qrcode-service/internal/models"
)

// ErrNotFound reports that no row matched the id (within the shop scope,
// where one applies). Callers must treat it as distinct from transport errors.
var ErrNotFound = errors.New("qr code not found")

// QRCodeRepo is the only gateway to the qrcodes table.
//
// Table:
//
//	CREATE TABLE qrcodes (
//	  id                 SERIAL PRIMARY KEY,
//	  shop               TEXT NOT NULL,
//	  title              TEXT NOT NULL,
//	  destination        TEXT NOT NULL,
//	  product_id         TEXT NOT NULL,
//	  product_handle     TEXT NOT NULL,
//	  product_variant_id TEXT NOT NULL,
//	  scans              INTEGER NOT NULL DEFAULT 0,
//	  created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//	CREATE INDEX idx_qrcodes_shop ON qrcodes(shop);
type QRCodeRepo struct {
	db *sql.DB
}

func NewQRCodeRepo(db *sql.DB) *QRCodeRepo {
	return &QRCodeRepo{db: db}
}

const qrcodeColumns = `id, shop, title, destination, product_id, product_handle, product_variant_id, scans, created_at`

func scanQRCode(row *sql.Row) (*models.QRCode, error) {
	var q models.QRCode
	err := row.Scan(
		&q.ID,
		&q.Shop,
		&q.Title,
		&q.Destination,
		&q.ProductID,
		&q.ProductHandle,
		&q.ProductVariantID,
		&q.Scans,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QRCodeRepo) Create(ctx context.Context, shop string, draft models.QRCodeDraft) (int, error) {
	query := `
		INSERT INTO qrcodes (shop, title, destination, product_id, product_handle, product_variant_id, scans)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING id
	`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		shop,
		draft.Title,
		draft.Destination,
		draft.ProductID,
		draft.ProductHandle,
		draft.ProductVariantID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create qr code: %w", err)
	}

	return id, nil
}

// GetByID looks a record up by id alone. Only the scan route uses this; the
// physical code carries no tenant information.
func (r *QRCodeRepo) GetByID(ctx context.Context, id int) (*models.QRCode, error) {
	query := `SELECT ` + qrcodeColumns + ` FROM qrcodes WHERE id = $1`
	return scanQRCode(r.db.QueryRowContext(ctx, query, id))
}

func (r *QRCodeRepo) GetForShop(ctx context.Context, shop string, id int) (*models.QRCode, error) {
	query := `SELECT ` + qrcodeColumns + ` FROM qrcodes WHERE id = $1 AND shop = $2`
	return scanQRCode(r.db.QueryRowContext(ctx, query, id, shop))
}

func (r *QRCodeRepo) ListByShop(ctx context.Context, shop string) ([]models.QRCode, error) {
	query := `SELECT ` + qrcodeColumns + ` FROM qrcodes WHERE shop = $1 ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, shop)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.QRCode
	for rows.Next() {
		var q models.QRCode
		if err := rows.Scan(
			&q.ID,
			&q.Shop,
			&q.Title,
			&q.Destination,
			&q.ProductID,
			&q.ProductHandle,
			&q.ProductVariantID,
			&q.Scans,
			&q.CreatedAt,
		); err != nil {
			return nil, err
		}
		codes = append(codes, q)
	}
	return codes, rows.Err()
}

// Update applies a partial update of the merchant-editable fields. id, shop,
// scans and created_at are never touched here.
func (r *QRCodeRepo) Update(ctx context.Context, shop string, id int, fields map[string]string) error {
	if len(fields) == 0 {
		// Nothing to write, but absence must still surface.
		var exists int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM qrcodes WHERE id = $1 AND shop = $2`, id, shop,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	allowed := map[string]string{
		"title":            "title",
		"destination":      "destination",
		"productId":        "product_id",
		"productHandle":    "product_handle",
		"productVariantId": "product_variant_id",
	}

	var sets []string
	var args []interface{}
	for name, value := range fields {
		col, ok := allowed[name]
		if !ok {
			return fmt.Errorf("update qr code: field %q is not updatable", name)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, id, shop)

	query := fmt.Sprintf(
		"UPDATE qrcodes SET %s WHERE id = $%d AND shop = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *QRCodeRepo) Delete(ctx context.Context, shop string, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM qrcodes WHERE id = $1 AND shop = $2`, id, shop)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// IncrementScans bumps the scan counter by one in a single UPDATE. The
// database owns the read-add-write, so concurrent scans of the same code
// never lose increments.
func (r *QRCodeRepo) IncrementScans(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE qrcodes SET scans = scans + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
