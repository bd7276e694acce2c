package enums

import "fmt"

// ItemType tags what kind of unit a sale line item references.
type ItemType string

const (
	ItemTypeDevice    ItemType = "device"
	ItemTypeInventory ItemType = "inventory"
	ItemTypeRepair    ItemType = "repair"
)

var validItemTypes = []ItemType{
	ItemTypeDevice,
	ItemTypeInventory,
	ItemTypeRepair,
}

// String implements fmt.Stringer.
func (i ItemType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemType.
func (i ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemType converts raw input into an ItemType.
func ParseItemType(value string) (ItemType, error) {
	for _, candidate := range validItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item type %q", value)
}
