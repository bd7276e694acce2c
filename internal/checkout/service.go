// Package checkout orchestrates the sale transaction: invoice numbering,
// sale header and line persistence, and the per-line state transition on
// the referenced device, inventory item, or repair. Everything runs inside
// one transaction; any failure rolls the whole sale back.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/internal/sequence"
	"github.com/shopdeskhq/shopdesk-backend/internal/shops"
	"github.com/shopdeskhq/shopdesk-backend/internal/stockledger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequenceGenerator interface {
	Next(ctx context.Context, tx *gorm.DB, shop *models.Shop, kind enums.DocumentKind, now time.Time) (string, error)
}

// Service executes the checkout transaction.
type Service interface {
	Execute(ctx context.Context, shopID, userID uuid.UUID, input CheckoutInput) (*Result, error)
}

type service struct {
	tx       txRunner
	sequence sequenceGenerator
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
}

// NewService builds the checkout service.
func NewService(tx txRunner, seq sequenceGenerator, logg *logger.Logger, m *metrics.CheckoutMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if seq == nil {
		seq = sequence.NewGenerator()
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, sequence: seq, logg: logg, metrics: m}, nil
}

func (s *service) Execute(ctx context.Context, shopID, userID uuid.UUID, input CheckoutInput) (*Result, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user required")
	}

	started := time.Now()
	var result *Result
	var shopCode string

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		now := time.Now().UTC()

		shop, err := shops.NewRepository(tx).FindByID(ctx, shopID)
		if err != nil {
			return err
		}
		shopCode = shop.Code

		actor, err := findActor(ctx, tx, shopID, userID)
		if err != nil {
			return err
		}

		customer, err := findCustomer(ctx, tx, shopID, input.CustomerID)
		if err != nil {
			return err
		}

		if err := validateInput(input); err != nil {
			return err
		}

		lines, totals := computeLines(input.Items)
		if err := reconcileTotals(input, totals); err != nil {
			return err
		}

		invoiceNumber, err := s.sequence.Next(ctx, tx, shop, enums.DocumentKindInvoice, now)
		if err != nil {
			return err
		}

		sale := models.Sale{
			ShopID:         shop.ID,
			CustomerID:     customer.ID,
			InvoiceNumber:  invoiceNumber,
			SubTotal:       totals.subTotal,
			TaxAmount:      input.TaxAmount,
			DiscountAmount: totals.discount,
			TotalAmount:    totals.subTotal.Add(input.TaxAmount).Sub(totals.discount),
			PaymentMethod:  input.PaymentMethod,
			PaymentStatus:  enums.PaymentStatusPaid,
			Notes:          input.Notes,
			SaleDate:       now,
			CreatedByID:    actor.ID,
		}
		if err := tx.WithContext(ctx).Create(&sale).Error; err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "invoice number already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating sale")
		}

		for i := range lines {
			lines[i].SaleID = sale.ID
		}
		if err := tx.WithContext(ctx).Create(&lines).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating sale items")
		}

		for i, item := range input.Items {
			if err := s.dispatchLine(ctx, tx, shop.ID, actor.ID, customer.ID, invoiceNumber, now, i, item); err != nil {
				return err
			}
		}

		result = &Result{SaleID: sale.ID, InvoiceNumber: invoiceNumber}
		return nil
	})
	if err != nil {
		code := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		s.metrics.IncFailure(shopCode, code)
		return nil, err
	}

	s.metrics.IncSuccess(shopCode)
	s.metrics.ObserveDuration(shopCode, time.Since(started))
	fields := map[string]any{
		"sale_id":        result.SaleID.String(),
		"invoice_number": result.InvoiceNumber,
		"items":          len(input.Items),
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "checkout completed")
	return result, nil
}

// dispatchLine applies the state transition the line's type demands.
func (s *service) dispatchLine(ctx context.Context, tx *gorm.DB, shopID, actorID, customerID uuid.UUID, invoiceNumber string, now time.Time, index int, item LineItemInput) error {
	switch item.ItemType {
	case enums.ItemTypeDevice:
		if item.ItemReferenceID == nil {
			return lineError(index, "device line requires a reference id")
		}
		var device models.Device
		err := tx.WithContext(ctx).
			Where("id = ? AND shop_id = ? AND deleted_at IS NULL", *item.ItemReferenceID, shopID).
			First(&device).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "device not found").
					WithDetails(map[string]any{"item_index": index})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading device")
		}
		if device.IsSold {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "device already sold").
				WithDetails(map[string]any{"item_index": index})
		}
		err = tx.WithContext(ctx).
			Model(&models.Device{}).
			Where("id = ?", device.ID).
			Updates(map[string]any{
				"is_sold":             true,
				"sold_date":           now,
				"sold_to_customer_id": customerID,
				"updated_at":          now,
			}).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking device sold")
		}
		return nil

	case enums.ItemTypeInventory:
		if item.ItemReferenceID == nil {
			return lineError(index, "inventory line requires a reference id")
		}
		applied, err := stockledger.Apply(ctx, tx, stockledger.ApplyInput{
			ShopID:          shopID,
			InventoryItemID: *item.ItemReferenceID,
			MovementType:    enums.MovementTypeOut,
			Quantity:        item.Quantity,
			Reason:          fmt.Sprintf("Sold via Invoice #%s", invoiceNumber),
			ReferenceNumber: invoiceNumber,
			ActorUserID:     actorID,
			UnitCost:        decimal.Zero,
		})
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found").
					WithDetails(map[string]any{"item_index": index})
			}
			return err
		}
		if applied.Clamped {
			s.metrics.IncStockClamp()
			fields := map[string]any{
				"inventory_item_id": item.ItemReferenceID.String(),
				"quantity":          item.Quantity,
				"previous_stock":    applied.Movement.PreviousStock,
				"invoice_number":    invoiceNumber,
			}
			s.logg.Warn(s.logg.WithFields(ctx, fields), "sale decremented stock past zero, clamped")
		}
		return nil

	case enums.ItemTypeRepair:
		if item.ItemReferenceID == nil {
			return lineError(index, "repair line requires a reference id")
		}
		var repair models.Repair
		err := tx.WithContext(ctx).
			Where("id = ? AND shop_id = ? AND deleted_at IS NULL", *item.ItemReferenceID, shopID).
			First(&repair).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "repair not found").
					WithDetails(map[string]any{"item_index": index})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading repair")
		}
		err = tx.WithContext(ctx).
			Model(&models.Repair{}).
			Where("id = ?", repair.ID).
			Updates(map[string]any{
				"payment_status": enums.PaymentStatusPaid,
				"updated_at":     now,
			}).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking repair paid")
		}
		return nil

	default:
		return lineError(index, fmt.Sprintf("unknown item type %q", item.ItemType))
	}
}

type headerTotals struct {
	subTotal decimal.Decimal
	discount decimal.Decimal
}

// computeLines builds the persisted line rows with server-side money fields.
func computeLines(items []LineItemInput) ([]models.SaleItem, headerTotals) {
	lines := make([]models.SaleItem, 0, len(items))
	totals := headerTotals{subTotal: decimal.Zero, discount: decimal.Zero}

	for _, item := range items {
		subTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total := subTotal.Sub(item.DiscountAmount)
		lines = append(lines, models.SaleItem{
			ItemType:        item.ItemType,
			ItemReferenceID: item.ItemReferenceID,
			Description:     item.Description,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			OriginalPrice:   item.OriginalPrice,
			SubTotal:        subTotal,
			DiscountAmount:  item.DiscountAmount,
			TotalAmount:     total,
		})
		totals.subTotal = totals.subTotal.Add(subTotal)
		totals.discount = totals.discount.Add(item.DiscountAmount)
	}
	return lines, totals
}

// reconcileTotals rejects caller headers that disagree with the recomputed
// line totals. The tax amount is caller input and only feeds the expected
// grand total.
func reconcileTotals(input CheckoutInput, totals headerTotals) error {
	expectedTotal := totals.subTotal.Add(input.TaxAmount).Sub(totals.discount)

	mismatches := map[string]any{}
	if !input.SubTotal.Equal(totals.subTotal) {
		mismatches["sub_total"] = map[string]string{
			"expected": totals.subTotal.StringFixed(2), "got": input.SubTotal.StringFixed(2),
		}
	}
	if !input.DiscountAmount.Equal(totals.discount) {
		mismatches["discount_amount"] = map[string]string{
			"expected": totals.discount.StringFixed(2), "got": input.DiscountAmount.StringFixed(2),
		}
	}
	if !input.TotalAmount.Equal(expectedTotal) {
		mismatches["total_amount"] = map[string]string{
			"expected": expectedTotal.StringFixed(2), "got": input.TotalAmount.StringFixed(2),
		}
	}
	if len(mismatches) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "header totals do not match line items").
			WithDetails(mismatches)
	}
	return nil
}

func validateInput(input CheckoutInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	for i, item := range input.Items {
		if !item.ItemType.IsValid() {
			return lineError(i, fmt.Sprintf("unknown item type %q", item.ItemType))
		}
		if item.Quantity < 1 {
			return lineError(i, "quantity must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return lineError(i, "unit price must not be negative")
		}
		if item.DiscountAmount.IsNegative() {
			return lineError(i, "discount must not be negative")
		}
		subTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if item.DiscountAmount.GreaterThan(subTotal) {
			return lineError(i, "discount exceeds line subtotal")
		}
	}
	return nil
}

func lineError(index int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"item_index": index})
}

func findActor(ctx context.Context, tx *gorm.DB, shopID, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := tx.WithContext(ctx).
		Where("id = ? AND shop_id = ? AND active = ? AND deleted_at IS NULL", userID, shopID, true).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user not found in shop")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading acting user")
	}
	return &user, nil
}

func findCustomer(ctx context.Context, tx *gorm.DB, shopID, customerID uuid.UUID) (*models.Customer, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	var customer models.Customer
	err := tx.WithContext(ctx).
		Where("id = ? AND shop_id = ? AND deleted_at IS NULL", customerID, shopID).
		First(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return &customer, nil
}
