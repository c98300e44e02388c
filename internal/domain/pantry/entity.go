// Package pantry holds the at-home stock records and the match engine that compares
// a recipe's ingredients against them.
package pantry

import (
	"errors"
	"time"
)

// DateLayout is the ISO date format used for expiry and meal dates.
const DateLayout = "2006-01-02"

// ExpiringWithin is how close to its expiry date an item counts as expiring.
const ExpiringWithin = 3 * 24 * time.Hour

// Item is one pantry row. Name is the case-insensitive natural key for merge-on-add.
type Item struct {
	ID          uint64   `json:"id,omitempty"`
	Name        string   `json:"name" validate:"required"`
	Quantity    float64  `json:"quantity" validate:"gte=0"`
	Unit        string   `json:"unit"`
	ExpiryDate  *string  `json:"expiryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Category    *string  `json:"category,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	MinQuantity *float64 `json:"minQuantity,omitempty" validate:"omitempty,gte=0"`
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit        *string  `json:"unit,omitempty"`
	ExpiryDate  *string  `json:"expiryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Category    *string  `json:"category,omitempty"`
	MinQuantity *float64 `json:"minQuantity,omitempty" validate:"omitempty,gte=0"`
}

// ExpiryStatus classifies an item's expiry date relative to today.
type ExpiryStatus string

const (
	ExpiryNone     ExpiryStatus = "none"
	ExpiryFresh    ExpiryStatus = "fresh"
	ExpiryExpiring ExpiryStatus = "expiring"
	ExpiryExpired  ExpiryStatus = "expired"
)

var ErrNameRequired = errors.New("pantry item name is required")

// Expiry reports the item's expiry status on the given day.
// Items without a parseable date have status none.
func (i *Item) Expiry(today time.Time) ExpiryStatus {
	if i.ExpiryDate == nil || *i.ExpiryDate == "" {
		return ExpiryNone
	}
	expiry, err := time.ParseInLocation(DateLayout, *i.ExpiryDate, today.Location())
	if err != nil {
		return ExpiryNone
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	switch {
	case expiry.Before(day):
		return ExpiryExpired
	case expiry.Sub(day) <= ExpiringWithin:
		return ExpiryExpiring
	default:
		return ExpiryFresh
	}
}

// IsLowStock reports whether a minimum is set and the quantity is below it.
func (i *Item) IsLowStock() bool {
	return i.MinQuantity != nil && i.Quantity < *i.MinQuantity
}

// Shortfall is how much is needed to get back to the minimum; zero when not low.
func (i *Item) Shortfall() float64 {
	if !i.IsLowStock() {
		return 0
	}
	return *i.MinQuantity - i.Quantity
}

// Apply merges a patch into the item
func (i *Item) Apply(p Patch) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		i.Unit = *p.Unit
	}
	if p.ExpiryDate != nil {
		if *p.ExpiryDate == "" {
			i.ExpiryDate = nil
		} else {
			i.ExpiryDate = p.ExpiryDate
		}
	}
	if p.Category != nil {
		i.Category = p.Category
	}
	if p.MinQuantity != nil {
		i.MinQuantity = p.MinQuantity
	}
}

// Absorb merges a same-named candidate into the item: quantities add up, the unit is
// replaced by the candidate's, and category, expiry and minimum are kept unless the
// candidate supplies them.
func (i *Item) Absorb(c Item) {
	i.Quantity += c.Quantity
	if c.Unit != "" {
		i.Unit = c.Unit
	}
	if c.Category != nil && *c.Category != "" {
		i.Category = c.Category
	}
	if c.ExpiryDate != nil && *c.ExpiryDate != "" {
		i.ExpiryDate = c.ExpiryDate
	}
	if c.MinQuantity != nil {
		i.MinQuantity = c.MinQuantity
	}
}
