package sales

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

type fixture struct {
	db       *gorm.DB
	svc      Service
	shop     *models.Shop
	user     *models.User
	customer *models.Customer
}

func TestGetByIDLoadsItems(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	sale := f.seedSale(t, "INV-20260830-0001", time.Now().UTC(), decimal.NewFromInt(100))
	items := []models.SaleItem{
		{SaleID: sale.ID, ItemType: enums.ItemTypeInventory, Description: "Cable", Quantity: 2,
			UnitPrice: decimal.NewFromInt(10), SubTotal: decimal.NewFromInt(20), TotalAmount: decimal.NewFromInt(20)},
		{SaleID: sale.ID, ItemType: enums.ItemTypeRepair, Description: "Screen repair", Quantity: 1,
			UnitPrice: decimal.NewFromInt(80), SubTotal: decimal.NewFromInt(80), TotalAmount: decimal.NewFromInt(80)},
	}
	if err := f.db.Create(&items).Error; err != nil {
		t.Fatalf("seed items: %v", err)
	}

	loaded, err := f.svc.GetByID(ctx, f.shop.ID, sale.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(loaded.Items))
	}
	if loaded.InvoiceNumber != "INV-20260830-0001" {
		t.Fatalf("unexpected invoice %s", loaded.InvoiceNumber)
	}
}

func TestGetByIDScopedToShop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	sale := f.seedSale(t, "INV-20260830-0002", time.Now().UTC(), decimal.NewFromInt(50))

	otherShop := models.Shop{Code: "99", Name: "Elsewhere", Active: true}
	if err := f.db.Create(&otherShop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}

	_, err := f.svc.GetByID(context.Background(), otherShop.ID, sale.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListFiltersByDateRange(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.seedSale(t, "INV-20260828-0001", time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC), decimal.NewFromInt(10))
	f.seedSale(t, "INV-20260829-0001", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), decimal.NewFromInt(20))
	f.seedSale(t, "INV-20260830-0001", time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), decimal.NewFromInt(30))

	from := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	list, err := f.svc.List(ctx, f.shop.ID, pagination.Params{}, ListFilters{DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("expected 1 sale in window, got %d", len(list.Items))
	}
	if list.Items[0].InvoiceNumber != "INV-20260829-0001" {
		t.Fatalf("unexpected sale %s", list.Items[0].InvoiceNumber)
	}
}

func TestListPagesWithCursor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.seedSale(t, "INV-20260830-0001", time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), decimal.NewFromInt(10))
	f.seedSale(t, "INV-20260830-0002", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), decimal.NewFromInt(20))
	f.seedSale(t, "INV-20260830-0003", time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC), decimal.NewFromInt(30))

	first, err := f.svc.List(ctx, f.shop.ID, pagination.Params{Limit: 2}, ListFilters{})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 sales on first page, got %d", len(first.Items))
	}
	if first.Items[0].InvoiceNumber != "INV-20260830-0003" {
		t.Fatalf("expected newest first, got %s", first.Items[0].InvoiceNumber)
	}
	if first.NextCursor == "" {
		t.Fatal("expected a next cursor")
	}

	second, err := f.svc.List(ctx, f.shop.ID, pagination.Params{Limit: 2, Cursor: first.NextCursor}, ListFilters{})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("expected 1 sale on second page, got %d", len(second.Items))
	}
	if second.Items[0].InvoiceNumber != "INV-20260830-0001" {
		t.Fatalf("unexpected sale %s", second.Items[0].InvoiceNumber)
	}
	if second.NextCursor != "" {
		t.Fatalf("expected no cursor on last page, got %q", second.NextCursor)
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.List(context.Background(), f.shop.ID, pagination.Params{Cursor: "not-a-cursor"}, ListFilters{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestListRejectsInvertedDateRange(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.List(context.Background(), f.shop.ID, pagination.Params{}, ListFilters{DateFrom: &from, DateTo: &to})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestDailySummaryAggregatesOneDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f.seedSale(t, "INV-20260830-0001", day.Add(9*time.Hour), decimal.NewFromInt(100))
	f.seedSale(t, "INV-20260830-0002", day.Add(15*time.Hour), decimal.NewFromInt(250))
	f.seedSale(t, "INV-20260831-0001", day.Add(25*time.Hour), decimal.NewFromInt(999))

	summary, err := f.svc.DailySummary(ctx, f.shop.ID, day)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.SaleCount != 2 {
		t.Fatalf("expected 2 sales, got %d", summary.SaleCount)
	}
	if summary.GrossTotal.StringFixed(2) != "350.00" {
		t.Fatalf("expected gross 350.00, got %s", summary.GrossTotal.StringFixed(2))
	}
	if summary.Date != "2026-08-30" {
		t.Fatalf("unexpected date %s", summary.Date)
	}
}

func TestDailySummaryKeepsCentsExact(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("19.99")
	for i := 0; i < 3; i++ {
		f.seedSale(t, fmt.Sprintf("INV-20260830-%04d", i+1), day.Add(time.Duration(i+9)*time.Hour), price)
	}

	summary, err := f.svc.DailySummary(ctx, f.shop.ID, day)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.GrossTotal.StringFixed(2) != "59.97" {
		t.Fatalf("expected gross 59.97, got %s", summary.GrossTotal.StringFixed(2))
	}
}

func TestDailySummaryEmptyDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	summary, err := f.svc.DailySummary(context.Background(), f.shop.ID, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.SaleCount != 0 {
		t.Fatalf("expected 0 sales, got %d", summary.SaleCount)
	}
	if !summary.GrossTotal.IsZero() {
		t.Fatalf("expected zero gross, got %s", summary.GrossTotal)
	}
}

func (f *fixture) seedSale(t *testing.T, invoice string, saleDate time.Time, total decimal.Decimal) *models.Sale {
	t.Helper()
	sale := models.Sale{
		ShopID:         f.shop.ID,
		CustomerID:     f.customer.ID,
		InvoiceNumber:  invoice,
		SubTotal:       total,
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    total,
		PaymentMethod:  enums.PaymentMethodCash,
		PaymentStatus:  enums.PaymentStatusPaid,
		SaleDate:       saleDate,
		CreatedByID:    f.user.ID,
	}
	if err := f.db.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	return &sale
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:sales_" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	migrations := []any{
		&models.Shop{}, &models.User{}, &models.Customer{}, &models.Sale{}, &models.SaleItem{},
	}
	if err := gdb.AutoMigrate(migrations...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	shop := models.Shop{Code: "01", Name: "Downtown", Active: true}
	if err := gdb.Create(&shop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	user := models.User{
		ShopID:       shop.ID,
		Email:        uuid.NewString() + "@shopdesk.test",
		FirstName:    "Casey",
		LastName:     "Cashier",
		PasswordHash: "x",
		Role:         enums.UserRoleCashier,
		Active:       true,
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	customer := models.Customer{ShopID: shop.ID, FirstName: "Walk", LastName: "In"}
	if err := gdb.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(gdb), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &fixture{db: gdb, svc: svc, shop: &shop, user: &user, customer: &customer}
}
