package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalogue entry (product or service) that can be quoted.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code        string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost"`
	Unit        string          `gorm:"size:50" json:"unit,omitempty"`
	Category    string          `gorm:"size:100;index" json:"category,omitempty"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
}

// ItemSearchFields are the fields matched by the items list filter.
var ItemSearchFields = []string{"code", "name", "category", "description"}

func (i Item) GetID() uint { return i.ID }

// Field returns the named field as text, or "" for an unknown name.
func (i Item) Field(name string) string {
	switch name {
	case "id":
		return strconv.FormatUint(uint64(i.ID), 10)
	case "code":
		return i.Code
	case "name":
		return i.Name
	case "description":
		return i.Description
	case "unit_cost":
		return i.UnitCost.String()
	case "unit":
		return i.Unit
	case "category":
		return i.Category
	case "is_active":
		return strconv.FormatBool(i.IsActive)
	}
	return ""
}
