// Package filters composes optional predicate clauses for list and search
// queries. Each helper returns the builder so call sites can chain the
// filters a request actually carries and apply the result to a gorm query.
package filters

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Scope is a single composable query predicate.
type Scope func(*gorm.DB) *gorm.DB

// Builder accumulates optional predicates for one list query.
type Builder struct {
	scopes []Scope
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Equal adds `column = value` when value is non-nil.
func (b *Builder) Equal(column string, value any) *Builder {
	if value == nil {
		return b
	}
	b.scopes = append(b.scopes, func(q *gorm.DB) *gorm.DB {
		return q.Where(fmt.Sprintf("%s = ?", column), value)
	})
	return b
}

// EqualString adds `column = value` when value is non-empty.
func (b *Builder) EqualString(column, value string) *Builder {
	if strings.TrimSpace(value) == "" {
		return b
	}
	return b.Equal(column, value)
}

// Search adds a case-insensitive substring match over one or more columns.
func (b *Builder) Search(query string, columns ...string) *Builder {
	query = strings.TrimSpace(query)
	if query == "" || len(columns) == 0 {
		return b
	}
	pattern := "%" + strings.ToLower(query) + "%"
	b.scopes = append(b.scopes, func(q *gorm.DB) *gorm.DB {
		conditions := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, column := range columns {
			conditions = append(conditions, fmt.Sprintf("LOWER(%s) LIKE ?", column))
			args = append(args, pattern)
		}
		return q.Where(strings.Join(conditions, " OR "), args...)
	})
	return b
}

// DateFrom adds `column >= value` when value is set.
func (b *Builder) DateFrom(column string, value *time.Time) *Builder {
	if value == nil {
		return b
	}
	b.scopes = append(b.scopes, func(q *gorm.DB) *gorm.DB {
		return q.Where(fmt.Sprintf("%s >= ?", column), *value)
	})
	return b
}

// DateTo adds `column < value` when value is set.
func (b *Builder) DateTo(column string, value *time.Time) *Builder {
	if value == nil {
		return b
	}
	b.scopes = append(b.scopes, func(q *gorm.DB) *gorm.DB {
		return q.Where(fmt.Sprintf("%s < ?", column), *value)
	})
	return b
}

// In adds `column IN values` when values is non-empty.
func (b *Builder) In(column string, values []string) *Builder {
	if len(values) == 0 {
		return b
	}
	b.scopes = append(b.scopes, func(q *gorm.DB) *gorm.DB {
		return q.Where(fmt.Sprintf("%s IN ?", column), values)
	})
	return b
}

// NotDeleted excludes soft-deleted rows.
func (b *Builder) NotDeleted() *Builder {
	b.scopes = append(b.scopes, func(q *gorm.DB) *gorm.DB {
		return q.Where("deleted_at IS NULL")
	})
	return b
}

// Apply attaches the accumulated predicates to the query.
func (b *Builder) Apply(q *gorm.DB) *gorm.DB {
	for _, scope := range b.scopes {
		q = scope(q)
	}
	return q
}
