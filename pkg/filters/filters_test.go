package filters

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
)

func TestBuilderComposesOptionalScopes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	shopID := uuid.New()
	otherShop := uuid.New()

	seed := []models.InventoryItem{
		{ShopID: shopID, Name: "iPhone 13 Screen", Category: "screens", Active: true},
		{ShopID: shopID, Name: "USB-C Cable", Category: "cables", Active: true},
		{ShopID: otherShop, Name: "iPhone 13 Screen", Category: "screens", Active: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed inventory: %v", err)
		}
	}

	var rows []models.InventoryItem
	query := New().
		Equal("shop_id", shopID).
		Search("iphone", "name").
		NotDeleted().
		Apply(db.Model(&models.InventoryItem{}))
	if err := query.Find(&rows).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ShopID != shopID {
		t.Fatalf("row from wrong shop %s", rows[0].ShopID)
	}
}

func TestBuilderSkipsEmptyInputs(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	shopID := uuid.New()
	for _, name := range []string{"Battery", "Charger"} {
		item := models.InventoryItem{ShopID: shopID, Name: name, Active: true}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("seed inventory: %v", err)
		}
	}

	var rows []models.InventoryItem
	query := New().
		Equal("shop_id", nil).
		EqualString("category", "  ").
		Search("", "name").
		DateFrom("created_at", nil).
		DateTo("created_at", nil).
		In("category", nil).
		Apply(db.Model(&models.InventoryItem{}))
	if err := query.Find(&rows).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected all rows back, got %d", len(rows))
	}
}

func TestBuilderDateWindow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	shopID := uuid.New()
	old := models.InventoryItem{ShopID: shopID, Name: "Old Part", Active: true}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	past := time.Now().UTC().Add(-48 * time.Hour)
	if err := db.Model(&models.InventoryItem{}).Where("id = ?", old.ID).
		Update("created_at", past).Error; err != nil {
		t.Fatalf("backdate row: %v", err)
	}
	recent := models.InventoryItem{ShopID: shopID, Name: "New Part", Active: true}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	from := time.Now().UTC().Add(-24 * time.Hour)
	var rows []models.InventoryItem
	query := New().
		Equal("shop_id", shopID).
		DateFrom("created_at", &from).
		Apply(db.Model(&models.InventoryItem{}))
	if err := query.Find(&rows).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "New Part" {
		t.Fatalf("expected only the recent row, got %d", len(rows))
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:filters_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.InventoryItem{}); err != nil {
		t.Fatalf("migrate inventory: %v", err)
	}
	return db
}
