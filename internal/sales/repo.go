package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/filters"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

type listQuery struct {
	Filters ListFilters
	Limit   int
	Cursor  *pagination.Cursor
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, shopID uuid.UUID, q listQuery) ([]models.Sale, *pagination.Cursor, error)
	Summarize(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*DailySummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindByID loads a sale with its line items.
func (r *repository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND shop_id = ?", id, shopID).
		First(&sale).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sale")
	}
	return &sale, nil
}

// List pages the sale history newest first, keyed on (sale_date, id).
func (r *repository) List(ctx context.Context, shopID uuid.UUID, q listQuery) ([]models.Sale, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(q.Limit)
	normalized := pagination.NormalizeLimit(q.Limit)

	b := filters.New().
		Equal("shop_id", shopID).
		Search(q.Filters.Query, "invoice_number").
		DateFrom("sale_date", q.Filters.DateFrom).
		DateTo("sale_date", q.Filters.DateTo)
	if q.Filters.PaymentMethod != nil {
		b.Equal("payment_method", string(*q.Filters.PaymentMethod))
	}

	query := b.Apply(r.db.WithContext(ctx))
	if q.Cursor != nil {
		query = query.Where("(sale_date, id) < (?, ?)", q.Cursor.Timestamp, q.Cursor.ID)
	}

	var sales []models.Sale
	if err := query.Order("sale_date DESC, id DESC").Limit(limit).Find(&sales).Error; err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sales")
	}

	if len(sales) > normalized {
		next := sales[normalized]
		sales = sales[:normalized]
		return sales, &pagination.Cursor{Timestamp: next.SaleDate, ID: next.ID}, nil
	}
	return sales, nil, nil
}

type summaryRow struct {
	SaleCount     int64
	GrossTotal    decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
}

// Summarize aggregates the sales in [from, to). Sums scan straight into
// decimals so money never rides through a float.
func (r *repository) Summarize(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*DailySummary, error) {
	var row summaryRow
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COUNT(*) AS sale_count, "+
			"COALESCE(SUM(total_amount), 0) AS gross_total, "+
			"COALESCE(SUM(tax_amount), 0) AS tax_total, "+
			"COALESCE(SUM(discount_amount), 0) AS discount_total").
		Where("shop_id = ? AND sale_date >= ? AND sale_date < ?", shopID, from, to).
		Scan(&row).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summarizing sales")
	}
	return &DailySummary{
		Date:          from.Format("2006-01-02"),
		SaleCount:     row.SaleCount,
		GrossTotal:    row.GrossTotal,
		TaxTotal:      row.TaxTotal,
		DiscountTotal: row.DiscountTotal,
	}, nil
}
