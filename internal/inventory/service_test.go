package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/internal/stockledger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/config"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/pagination"
)

type fixture struct {
	db   *gorm.DB
	svc  Service
	shop *models.Shop
	user *models.User
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.Create(ctx, f.shop.ID, f.user.ID, CreateItemInput{
		Name:         "USB-C Cable",
		SKU:          "CAB-001",
		Category:     "accessories",
		CurrentStock: 12,
		ReorderPoint: 3,
		CostPrice:    decimal.NewFromInt(2),
		RetailPrice:  decimal.NewFromInt(8),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !item.NotifyLowStock || !item.Active {
		t.Fatalf("expected defaults on, got %+v", item)
	}

	loaded, err := f.svc.GetByID(ctx, f.shop.ID, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Name != "USB-C Cable" || loaded.CurrentStock != 12 {
		t.Fatalf("unexpected item %+v", loaded)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateItemInput
	}{
		{"blank name", CreateItemInput{Name: "  "}},
		{"negative stock", CreateItemInput{Name: "Cable", CurrentStock: -1}},
		{"negative price", CreateItemInput{Name: "Cable", RetailPrice: decimal.NewFromInt(-5)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.shop.ID, f.user.ID, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestCreateRecordsOpeningStockMovement(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.Create(ctx, f.shop.ID, f.user.ID, CreateItemInput{
		Name:         "Screen Protector",
		CurrentStock: 15,
		CostPrice:    decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.CurrentStock != 15 {
		t.Fatalf("expected stock 15, got %d", item.CurrentStock)
	}

	movements, err := f.svc.ListMovements(ctx, f.shop.ID, item.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements.Items) != 1 {
		t.Fatalf("expected 1 opening movement, got %d", len(movements.Items))
	}
	opening := movements.Items[0]
	if opening.MovementType != enums.MovementTypeAdjustment {
		t.Fatalf("expected adjustment, got %s", opening.MovementType)
	}
	if opening.PreviousStock != 0 || opening.NewStock != 15 {
		t.Fatalf("unexpected movement stocks %d -> %d", opening.PreviousStock, opening.NewStock)
	}
	if opening.Reason != "opening stock" {
		t.Fatalf("unexpected reason %q", opening.Reason)
	}
	if opening.ActorUserID != f.user.ID {
		t.Fatalf("movement not attributed to creator")
	}
}

func TestCreateWithoutStockWritesNoMovement(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.Create(ctx, f.shop.ID, f.user.ID, CreateItemInput{Name: "Empty Shelf"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	movements, err := f.svc.ListMovements(ctx, f.shop.ID, item.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements.Items) != 0 {
		t.Fatalf("expected no movements, got %d", len(movements.Items))
	}
}

func TestListLowStockHonorsReorderPointAndFlags(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.seedItem(t, "Screen Protector", 2, 5, true, true)   // low, alerting
	f.seedItem(t, "Charger", 5, 5, true, true)            // at the point, alerting
	f.seedItem(t, "Case", 1, 5, false, true)              // low, alerts muted
	f.seedItem(t, "Tempered Glass", 0, 5, true, false)    // low, inactive
	f.seedItem(t, "Battery Pack", 20, 5, true, true)      // healthy

	items, err := f.svc.ListLowStock(ctx, f.shop.ID)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 low stock items, got %d", len(items))
	}
	if items[0].Name != "Screen Protector" || items[1].Name != "Charger" {
		t.Fatalf("unexpected order %s, %s", items[0].Name, items[1].Name)
	}
}

func TestRecordMovementWritesLedgerRow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item := f.seedItem(t, "SIM Tool", 4, 2, true, true)

	movement, err := f.svc.RecordMovement(ctx, f.shop.ID, f.user.ID, item.ID, RecordMovementInput{
		MovementType: enums.MovementTypeIn,
		Quantity:     6,
		Reason:       "supplier delivery",
		UnitCost:     decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("record movement: %v", err)
	}
	if movement.PreviousStock != 4 || movement.NewStock != 10 {
		t.Fatalf("unexpected movement stocks %d -> %d", movement.PreviousStock, movement.NewStock)
	}

	reloaded, err := f.svc.GetByID(ctx, f.shop.ID, item.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CurrentStock != 10 {
		t.Fatalf("expected stock 10, got %d", reloaded.CurrentStock)
	}
}

func TestListMovementsScopedToShop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item := f.seedItem(t, "SIM Tool", 4, 2, true, true)
	if _, err := f.svc.RecordMovement(ctx, f.shop.ID, f.user.ID, item.ID, RecordMovementInput{
		MovementType: enums.MovementTypeIn,
		Quantity:     2,
	}); err != nil {
		t.Fatalf("record movement: %v", err)
	}

	movements, err := f.svc.ListMovements(ctx, f.shop.ID, item.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements.Items) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements.Items))
	}

	otherShop := models.Shop{Code: "99", Name: "Elsewhere", Active: true}
	if err := f.db.Create(&otherShop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	_, err = f.svc.ListMovements(ctx, otherShop.ID, item.ID, pagination.Params{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for cross shop read, got %v", err)
	}
}

func TestListMovementsPagesWithCursor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item := f.seedItem(t, "SIM Tool", 4, 2, true, true)
	for i := 0; i < 3; i++ {
		if _, err := f.svc.RecordMovement(ctx, f.shop.ID, f.user.ID, item.ID, RecordMovementInput{
			MovementType: enums.MovementTypeIn,
			Quantity:     i + 1,
		}); err != nil {
			t.Fatalf("record movement: %v", err)
		}
	}

	first, err := f.svc.ListMovements(ctx, f.shop.ID, item.ID, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 movements on first page, got %d", len(first.Items))
	}
	if first.NextCursor == "" {
		t.Fatal("expected a next cursor")
	}

	second, err := f.svc.ListMovements(ctx, f.shop.ID, item.ID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("expected 1 movement on second page, got %d", len(second.Items))
	}
	if second.NextCursor != "" {
		t.Fatalf("expected no cursor on last page, got %q", second.NextCursor)
	}

	seen := map[uuid.UUID]bool{}
	for _, m := range append(first.Items, second.Items...) {
		if seen[m.ID] {
			t.Fatalf("movement %s repeated across pages", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestUpdateLeavesStockAlone(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item := f.seedItem(t, "SIM Tool", 4, 2, true, true)

	name := "SIM Ejector Tool"
	reorder := 6
	updated, err := f.svc.Update(ctx, f.shop.ID, item.ID, UpdateItemInput{
		Name:         &name,
		ReorderPoint: &reorder,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name || updated.ReorderPoint != 6 {
		t.Fatalf("update not applied %+v", updated)
	}
	if updated.CurrentStock != 4 {
		t.Fatalf("stock changed by update, got %d", updated.CurrentStock)
	}
}

func TestDeleteHidesItem(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item := f.seedItem(t, "SIM Tool", 4, 2, true, true)

	if err := f.svc.Delete(ctx, f.shop.ID, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := f.svc.GetByID(ctx, f.shop.ID, item.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}

	items, err := f.svc.List(ctx, f.shop.ID, ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("deleted item still listed, got %d", len(items))
	}
}

func (f *fixture) seedItem(t *testing.T, name string, stock, reorder int, notify, active bool) *models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		ShopID:         f.shop.ID,
		Name:           name,
		CurrentStock:   stock,
		ReorderPoint:   reorder,
		RetailPrice:    decimal.NewFromInt(10),
		NotifyLowStock: notify,
		Active:         active,
	}
	if err := f.db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return &item
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	client, err := db.New(ctx, config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	gdb := client.DB()
	migrations := []any{
		&models.Shop{}, &models.User{}, &models.InventoryItem{}, &models.StockMovement{},
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
		FirstName:    "Sam",
		LastName:     "Stockkeeper",
		PasswordHash: "x",
		Role:         enums.UserRoleManager,
		Active:       true,
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	ledger, err := stockledger.NewService(client, logg, nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	svc, err := NewService(NewRepository(gdb), ledger, client, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &fixture{db: gdb, svc: svc, shop: &shop, user: &user}
}
