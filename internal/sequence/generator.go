// Package sequence produces human-readable document numbers for repairs and
// sale invoices, scoped to a shop and a UTC calendar day.
package sequence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shopdeskhq/shopdesk-backend/pkg/db/models"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	pkgerrors "github.com/shopdeskhq/shopdesk-backend/pkg/errors"
)

const dateLayout = "20060102"

// Generator issues the next document number for a shop and kind.
//
// The scheme is a best-effort read-then-insert: it counts the shop's
// same-day documents inside the caller's transaction and formats count+1.
// No locking or retry is performed. Two concurrent writers can compute the
// same number; the unique index on the document column is the last line of
// defense and surfaces the collision as a CONFLICT to the caller.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Next returns the next document number for the shop on the day of now (UTC).
// It must run inside the transaction that will insert the document.
func (g *Generator) Next(ctx context.Context, tx *gorm.DB, shop *models.Shop, kind enums.DocumentKind, now time.Time) (string, error) {
	if tx == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "sequence generator requires a transaction")
	}
	if shop == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "sequence generator requires a shop")
	}

	dateCode := now.UTC().Format(dateLayout)

	switch kind {
	case enums.DocumentKindInvoice:
		prefix := fmt.Sprintf("INV-%s-", dateCode)
		var count int64
		err := tx.WithContext(ctx).
			Model(&models.Sale{}).
			Where("shop_id = ? AND invoice_number LIKE ?", shop.ID, prefix+"%").
			Count(&count).Error
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting same-day invoices")
		}
		return fmt.Sprintf("%s%04d", prefix, count+1), nil

	case enums.DocumentKindRepair:
		prefix := fmt.Sprintf("REP%s%s", shop.Code, dateCode)
		var count int64
		err := tx.WithContext(ctx).
			Model(&models.Repair{}).
			Where("shop_id = ? AND repair_number LIKE ?", shop.ID, prefix+"%").
			Count(&count).Error
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting same-day repairs")
		}
		return fmt.Sprintf("%s%03d", prefix, count+1), nil

	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown document kind %q", kind))
	}
}
