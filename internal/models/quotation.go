package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuotationStatus represents the lifecycle state of a quotation.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// QuotationStatuses lists every valid status, in lifecycle order.
var QuotationStatuses = []QuotationStatus{
	QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted, QuotationStatusRejected,
}

// Valid reports whether s is a known status.
func (s QuotationStatus) Valid() bool {
	for _, v := range QuotationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Quotation is a priced offer sent to a client. Totals are never stored; they
// are derived from Items, the discount and the tax rate on every read.
type Quotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Quotation identification
	Number string `gorm:"size:50;uniqueIndex" json:"number"`
	Title  string `gorm:"size:255" json:"title,omitempty"`

	// Client relationship
	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	IssueDate  time.Time  `gorm:"not null" json:"issue_date"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	Status QuotationStatus `gorm:"size:20;not null" json:"status"`

	// DiscountKind is "amount" or "percentage"
	DiscountKind  string          `gorm:"size:20" json:"discount_kind"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	// TaxRate is a percentage, e.g. 20 for 20%
	TaxRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	Items []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// QuotationSearchFields are the fields matched by the quotations list filter.
var QuotationSearchFields = []string{"number", "title", "status", "client_name"}

func (q Quotation) GetID() uint { return q.ID }

func (q Quotation) Field(name string) string {
	switch name {
	case "id":
		return strconv.FormatUint(uint64(q.ID), 10)
	case "number":
		return q.Number
	case "title":
		return q.Title
	case "status":
		return string(q.Status)
	case "client_name":
		if q.Client != nil {
			return q.Client.Name
		}
	case "issue_date":
		return q.IssueDate.Format("2006-01-02")
	case "notes":
		return q.Notes
	}
	return ""
}

// CanEdit returns true if the quotation can still be edited.
func (q *Quotation) CanEdit() bool {
	return q.Status == QuotationStatusDraft || q.Status == ""
}

// IsExpired reports whether the validity date is before now.
func (q *Quotation) IsExpired(now time.Time) bool {
	return q.ValidUntil != nil && q.ValidUntil.Before(now)
}

// QuotationItem represents a line item on a quotation.
type QuotationItem struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	QuotationID uint `gorm:"index;not null" json:"quotation_id"`

	// Optional catalogue reference (can be null for custom lines)
	ItemID *uint `gorm:"index" json:"item_id,omitempty"`

	Description string          `gorm:"size:500;not null" json:"description"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"line_total"`

	// Position for ordering
	Position int `gorm:"default:0" json:"position"`
}

// GenerateQuotationNumber generates the next quotation number of year.
// Format: QUO-YYYY-NNNN (e.g., QUO-2025-0001). Numbering continues after the
// highest existing number so deleted quotations never cause a reuse. Sequences
// past 9999 widen the number, so longer numbers sort first.
func GenerateQuotationNumber(db *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("QUO-%d-", year)
	var last Quotation
	err := db.Select("number").
		Where("number LIKE ?", prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return "", err
	}
	next := 1
	if last.Number != "" {
		n, convErr := strconv.Atoi(strings.TrimPrefix(last.Number, prefix))
		if convErr != nil {
			return "", fmt.Errorf("unexpected quotation number %q: %w", last.Number, convErr)
		}
		next = n + 1
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}
