package checkout

import (
	"context"
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
)

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

type fixture struct {
	db       *gorm.DB
	svc      Service
	shop     *models.Shop
	user     *models.User
	customer *models.Customer
}

func TestExecuteMixedCartCommitsAllTransitions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	item := seedInventoryItem(t, f.db, f.shop.ID, 10)
	device := seedDevice(t, f.db, f.shop.ID)
	repair := seedRepair(t, f.db, f.shop.ID, f.customer.ID, f.user.ID, "REP0120260830001")

	input := CheckoutInput{
		CustomerID: f.customer.ID,
		Items: []LineItemInput{
			{
				ItemType:        enums.ItemTypeInventory,
				ItemReferenceID: &item.ID,
				Description:     "Screen Protector x2",
				Quantity:        2,
				UnitPrice:       decimal.NewFromInt(15),
				OriginalPrice:   decimal.NewFromInt(15),
				DiscountAmount:  decimal.Zero,
			},
			{
				ItemType:        enums.ItemTypeDevice,
				ItemReferenceID: &device.ID,
				Description:     "Refurb iPhone 12",
				Quantity:        1,
				UnitPrice:       decimal.NewFromInt(400),
				OriginalPrice:   decimal.NewFromInt(450),
				DiscountAmount:  decimal.NewFromInt(50),
			},
			{
				ItemType:        enums.ItemTypeRepair,
				ItemReferenceID: &repair.ID,
				Description:     "Screen repair",
				Quantity:        1,
				UnitPrice:       decimal.NewFromInt(120),
				OriginalPrice:   decimal.NewFromInt(120),
				DiscountAmount:  decimal.Zero,
			},
		},
		SubTotal:       decimal.NewFromInt(550),
		TaxAmount:      decimal.NewFromInt(55),
		DiscountAmount: decimal.NewFromInt(50),
		TotalAmount:    decimal.NewFromInt(555),
		PaymentMethod:  enums.PaymentMethodCash,
	}

	result, err := f.svc.Execute(ctx, f.shop.ID, f.user.ID, input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.InvoiceNumber == "" || result.SaleID == uuid.Nil {
		t.Fatalf("incomplete result %+v", result)
	}

	var sale models.Sale
	if err := f.db.First(&sale, "id = ?", result.SaleID).Error; err != nil {
		t.Fatalf("load sale: %v", err)
	}
	if sale.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid sale, got %s", sale.PaymentStatus)
	}
	if !sale.SubTotal.Equal(decimal.NewFromInt(550)) {
		t.Fatalf("unexpected subtotal %s", sale.SubTotal)
	}
	if !sale.TotalAmount.Equal(decimal.NewFromInt(555)) {
		t.Fatalf("unexpected total %s", sale.TotalAmount)
	}

	var lines []models.SaleItem
	if err := f.db.Where("sale_id = ?", sale.ID).Order("created_at").Find(&lines).Error; err != nil {
		t.Fatalf("load lines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	var inventoryLine *models.SaleItem
	for i := range lines {
		if lines[i].ItemType == enums.ItemTypeInventory {
			inventoryLine = &lines[i]
		}
	}
	if inventoryLine == nil {
		t.Fatal("inventory line missing")
	}
	if inventoryLine.SubTotal.StringFixed(2) != "30.00" {
		t.Fatalf("expected line subtotal 30.00, got %s", inventoryLine.SubTotal.StringFixed(2))
	}

	var reloadedItem models.InventoryItem
	if err := f.db.First(&reloadedItem, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloadedItem.CurrentStock != 8 {
		t.Fatalf("expected stock 8, got %d", reloadedItem.CurrentStock)
	}

	var movement models.StockMovement
	if err := f.db.First(&movement, "inventory_item_id = ?", item.ID).Error; err != nil {
		t.Fatalf("load movement: %v", err)
	}
	if movement.PreviousStock != 10 || movement.NewStock != 8 {
		t.Fatalf("unexpected movement stocks %d -> %d", movement.PreviousStock, movement.NewStock)
	}
	if movement.ReferenceNumber != result.InvoiceNumber {
		t.Fatalf("movement not tagged with invoice, got %q", movement.ReferenceNumber)
	}

	var reloadedDevice models.Device
	if err := f.db.First(&reloadedDevice, "id = ?", device.ID).Error; err != nil {
		t.Fatalf("reload device: %v", err)
	}
	if !reloadedDevice.IsSold || reloadedDevice.SoldDate == nil {
		t.Fatal("device not marked sold")
	}
	if reloadedDevice.SoldToCustomerID == nil || *reloadedDevice.SoldToCustomerID != f.customer.ID {
		t.Fatal("device not linked to buying customer")
	}

	var reloadedRepair models.Repair
	if err := f.db.First(&reloadedRepair, "id = ?", repair.ID).Error; err != nil {
		t.Fatalf("reload repair: %v", err)
	}
	if reloadedRepair.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("repair not marked paid, got %s", reloadedRepair.PaymentStatus)
	}
}

func TestExecuteRollsBackWhenLastLineFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	item := seedInventoryItem(t, f.db, f.shop.ID, 10)
	missing := uuid.New()

	input := CheckoutInput{
		CustomerID: f.customer.ID,
		Items: []LineItemInput{
			{
				ItemType:        enums.ItemTypeInventory,
				ItemReferenceID: &item.ID,
				Description:     "Cable",
				Quantity:        3,
				UnitPrice:       decimal.NewFromInt(10),
				OriginalPrice:   decimal.NewFromInt(10),
			},
			{
				ItemType:        enums.ItemTypeDevice,
				ItemReferenceID: &missing,
				Description:     "Ghost device",
				Quantity:        1,
				UnitPrice:       decimal.NewFromInt(100),
				OriginalPrice:   decimal.NewFromInt(100),
			},
		},
		SubTotal:       decimal.NewFromInt(130),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.NewFromInt(130),
		PaymentMethod:  enums.PaymentMethodCash,
	}

	_, err := f.svc.Execute(context.Background(), f.shop.ID, f.user.ID, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	var saleCount, itemCount, movementCount int64
	f.db.Model(&models.Sale{}).Count(&saleCount)
	f.db.Model(&models.SaleItem{}).Count(&itemCount)
	f.db.Model(&models.StockMovement{}).Count(&movementCount)
	if saleCount != 0 || itemCount != 0 || movementCount != 0 {
		t.Fatalf("rollback left rows: sales=%d items=%d movements=%d", saleCount, itemCount, movementCount)
	}

	var reloadedItem models.InventoryItem
	if err := f.db.First(&reloadedItem, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloadedItem.CurrentStock != 10 {
		t.Fatalf("stock mutated despite rollback: %d", reloadedItem.CurrentStock)
	}
}

func TestExecuteInvoiceNumbersAreSequential(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	item := seedInventoryItem(t, f.db, f.shop.ID, 50)

	input := CheckoutInput{
		CustomerID: f.customer.ID,
		Items: []LineItemInput{
			{
				ItemType:        enums.ItemTypeInventory,
				ItemReferenceID: &item.ID,
				Description:     "Cable",
				Quantity:        1,
				UnitPrice:       decimal.NewFromInt(10),
				OriginalPrice:   decimal.NewFromInt(10),
			},
		},
		SubTotal:       decimal.NewFromInt(10),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.NewFromInt(10),
		PaymentMethod:  enums.PaymentMethodCard,
	}

	first, err := f.svc.Execute(ctx, f.shop.ID, f.user.ID, input)
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	second, err := f.svc.Execute(ctx, f.shop.ID, f.user.ID, input)
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}

	datePart := time.Now().UTC().Format("20060102")
	if first.InvoiceNumber != "INV-"+datePart+"-0001" {
		t.Fatalf("unexpected first invoice %s", first.InvoiceNumber)
	}
	if second.InvoiceNumber != "INV-"+datePart+"-0002" {
		t.Fatalf("unexpected second invoice %s", second.InvoiceNumber)
	}
}

func TestExecuteRejectsEmptyItemList(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	input := CheckoutInput{
		CustomerID:    f.customer.ID,
		PaymentMethod: enums.PaymentMethodCash,
	}

	_, err := f.svc.Execute(context.Background(), f.shop.ID, f.user.ID, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestExecuteRejectsUnknownItemType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ref := uuid.New()
	input := CheckoutInput{
		CustomerID: f.customer.ID,
		Items: []LineItemInput{
			{
				ItemType:        enums.ItemType("warranty"),
				ItemReferenceID: &ref,
				Description:     "Extended warranty",
				Quantity:        1,
				UnitPrice:       decimal.NewFromInt(20),
				OriginalPrice:   decimal.NewFromInt(20),
			},
		},
		SubTotal:       decimal.NewFromInt(20),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.NewFromInt(20),
		PaymentMethod:  enums.PaymentMethodCash,
	}

	_, err := f.svc.Execute(context.Background(), f.shop.ID, f.user.ID, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestExecuteRejectsHeaderTotalMismatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	item := seedInventoryItem(t, f.db, f.shop.ID, 10)
	input := CheckoutInput{
		CustomerID: f.customer.ID,
		Items: []LineItemInput{
			{
				ItemType:        enums.ItemTypeInventory,
				ItemReferenceID: &item.ID,
				Description:     "Cable",
				Quantity:        2,
				UnitPrice:       decimal.NewFromInt(10),
				OriginalPrice:   decimal.NewFromInt(10),
			},
		},
		SubTotal:       decimal.NewFromInt(25),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.NewFromInt(25),
		PaymentMethod:  enums.PaymentMethodCash,
	}

	_, err := f.svc.Execute(context.Background(), f.shop.ID, f.user.ID, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("expected mismatch details")
	}

	var saleCount int64
	f.db.Model(&models.Sale{}).Count(&saleCount)
	if saleCount != 0 {
		t.Fatalf("mismatched checkout must not persist, got %d sales", saleCount)
	}
}

func TestExecuteRejectsSoldDevice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	device := seedDevice(t, f.db, f.shop.ID)
	soldAt := time.Now().UTC()
	if err := f.db.Model(&models.Device{}).Where("id = ?", device.ID).
		Updates(map[string]any{"is_sold": true, "sold_date": soldAt}).Error; err != nil {
		t.Fatalf("mark sold: %v", err)
	}

	input := deviceOnlyInput(f.customer.ID, device.ID)
	_, err := f.svc.Execute(context.Background(), f.shop.ID, f.user.ID, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestExecuteRejectsCrossShopDevice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	otherShop := models.Shop{Code: "99", Name: "Other", Active: true}
	if err := f.db.Create(&otherShop).Error; err != nil {
		t.Fatalf("seed other shop: %v", err)
	}
	foreignDevice := seedDevice(t, f.db, otherShop.ID)

	input := deviceOnlyInput(f.customer.ID, foreignDevice.ID)
	_, err := f.svc.Execute(context.Background(), f.shop.ID, f.user.ID, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for cross-shop reference, got %v", err)
	}
}

func TestExecuteRejectsUnknownActor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	device := seedDevice(t, f.db, f.shop.ID)

	input := deviceOnlyInput(f.customer.ID, device.ID)
	_, err := f.svc.Execute(context.Background(), f.shop.ID, uuid.New(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestExecuteRejectsUnknownCustomer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	device := seedDevice(t, f.db, f.shop.ID)

	input := deviceOnlyInput(uuid.New(), device.ID)
	_, err := f.svc.Execute(context.Background(), f.shop.ID, f.user.ID, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func deviceOnlyInput(customerID, deviceID uuid.UUID) CheckoutInput {
	ref := deviceID
	return CheckoutInput{
		CustomerID: customerID,
		Items: []LineItemInput{
			{
				ItemType:        enums.ItemTypeDevice,
				ItemReferenceID: &ref,
				Description:     "Refurb phone",
				Quantity:        1,
				UnitPrice:       decimal.NewFromInt(200),
				OriginalPrice:   decimal.NewFromInt(200),
			},
		},
		SubTotal:       decimal.NewFromInt(200),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.NewFromInt(200),
		PaymentMethod:  enums.PaymentMethodCash,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	migrations := []any{
		&models.Shop{}, &models.User{}, &models.Customer{}, &models.Device{},
		&models.Repair{}, &models.InventoryItem{}, &models.StockMovement{},
		&models.Sale{}, &models.SaleItem{},
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
	svc, err := NewService(&testTxRunner{db: gdb}, nil, logg, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &fixture{db: gdb, svc: svc, shop: &shop, user: &user, customer: &customer}
}

func seedInventoryItem(t *testing.T, db *gorm.DB, shopID uuid.UUID, stock int) *models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		ShopID:       shopID,
		Name:         "Screen Protector",
		CurrentStock: stock,
		ReorderPoint: 2,
		RetailPrice:  decimal.NewFromInt(15),
		Active:       true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed inventory item: %v", err)
	}
	return &item
}

func seedDevice(t *testing.T, db *gorm.DB, shopID uuid.UUID) *models.Device {
	t.Helper()
	device := models.Device{
		ShopID:           shopID,
		Brand:            "Apple",
		Model:            "iPhone 12",
		SellingPrice:     decimal.NewFromInt(400),
		BuyingPrice:      decimal.NewFromInt(250),
		AvailableForSale: true,
	}
	if err := db.Create(&device).Error; err != nil {
		t.Fatalf("seed device: %v", err)
	}
	return &device
}

func seedRepair(t *testing.T, db *gorm.DB, shopID, customerID, userID uuid.UUID, number string) *models.Repair {
	t.Helper()
	repair := models.Repair{
		ShopID:        shopID,
		RepairNumber:  number,
		CustomerID:    customerID,
		DeviceBrand:   "Apple",
		DeviceModel:   "iPhone 12",
		Issue:         "cracked screen",
		Cost:          decimal.NewFromInt(120),
		Status:        enums.RepairStatusComplete,
		PaymentStatus: enums.PaymentStatusUnpaid,
		CreatedByID:   userID,
	}
	if err := db.Create(&repair).Error; err != nil {
		t.Fatalf("seed repair: %v", err)
	}
	return &repair
}
