package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtrack/qrcode-service/internal/models"
)

var qrcodeRows = []string{
	"id", "shop", "title", "destination", "product_id",
	"product_handle", "product_variant_id", "scans", "created_at",
}

func newMock(t *testing.T) (*QRCodeRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewQRCodeRepo(db), mock
}

func TestCreateReturnsStoreAssignedID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO qrcodes`).
		WithArgs("s.myshopify.com", "Blue mug promo", "product",
			"gid://shopify/Product/123", "blue-mug", "gid://shopify/ProductVariant/42").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := repo.Create(context.Background(), "s.myshopify.com", models.QRCodeDraft{
		Title:            "Blue mug promo",
		Destination:      "product",
		ProductID:        "gid://shopify/Product/123",
		ProductHandle:    "blue-mug",
		ProductVariantID: "gid://shopify/ProductVariant/42",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM qrcodes WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(qrcodeRows))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForShopFiltersByTenant(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM qrcodes WHERE id = \$1 AND shop = \$2`).
		WithArgs(1, "s.myshopify.com").
		WillReturnRows(sqlmock.NewRows(qrcodeRows).AddRow(
			1, "s.myshopify.com", "Blue mug promo", "product",
			"gid://shopify/Product/123", "blue-mug", "gid://shopify/ProductVariant/42",
			3, created,
		))

	q, err := repo.GetForShop(context.Background(), "s.myshopify.com", 1)
	require.NoError(t, err)
	assert.Equal(t, "s.myshopify.com", q.Shop)
	assert.Equal(t, 3, q.Scans)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByShopOrdersByIDDesc(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM qrcodes WHERE shop = \$1 ORDER BY id DESC`).
		WithArgs("s.myshopify.com").
		WillReturnRows(sqlmock.NewRows(qrcodeRows).
			AddRow(2, "s.myshopify.com", "Second", "product", "p2", "h2", "", 0, created).
			AddRow(1, "s.myshopify.com", "First", "product", "p1", "h1", "", 5, created))

	codes, err := repo.ListByShop(context.Background(), "s.myshopify.com")
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, 2, codes[0].ID)
	assert.Equal(t, 1, codes[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The increment is a single UPDATE so the database arbitrates concurrent
// scans; there is no read-modify-write to lose.
func TestIncrementScansSingleAtomicUpdate(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE qrcodes SET scans = scans \+ 1 WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementScans(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementScansNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE qrcodes SET scans = scans \+ 1 WHERE id = \$1`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementScans(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateScopedAndPartial(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE qrcodes SET title = \$1 WHERE id = \$2 AND shop = \$3`).
		WithArgs("New title", 1, "s.myshopify.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "s.myshopify.com", 1, map[string]string{"title": "New title"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmptyFieldsStillReportsNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT 1 FROM qrcodes WHERE id = \$1 AND shop = \$2`).
		WithArgs(99, "s.myshopify.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	err := repo.Update(context.Background(), "s.myshopify.com", 99, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmptyFieldsExistingRecordSucceeds(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT 1 FROM qrcodes WHERE id = \$1 AND shop = \$2`).
		WithArgs(1, "s.myshopify.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	err := repo.Update(context.Background(), "s.myshopify.com", 1, map[string]string{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectsUnknownField(t *testing.T) {
	repo, _ := newMock(t)

	err := repo.Update(context.Background(), "s.myshopify.com", 1, map[string]string{"scans": "100"})
	assert.Error(t, err)
}

func TestDeleteNotFoundOutsideShopScope(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM qrcodes WHERE id = \$1 AND shop = \$2`).
		WithArgs(1, "other.myshopify.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "other.myshopify.com", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
