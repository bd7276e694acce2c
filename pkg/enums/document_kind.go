package enums

import "fmt"

// DocumentKind selects which sequential document number is being generated.
type DocumentKind string

const (
	DocumentKindRepair  DocumentKind = "repair"
	DocumentKindInvoice DocumentKind = "invoice"
)

var validDocumentKinds = []DocumentKind{
	DocumentKindRepair,
	DocumentKindInvoice,
}

// String implements fmt.Stringer.
func (d DocumentKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentKind.
func (d DocumentKind) IsValid() bool {
	for _, candidate := range validDocumentKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentKind converts raw input into a DocumentKind.
func ParseDocumentKind(value string) (DocumentKind, error) {
	for _, candidate := range validDocumentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document kind %q", value)
}
