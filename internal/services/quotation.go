package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/internal/models"
	"github.com/diewo77/go-quotes/quotetotals"
	"github.com/diewo77/go-quotes/validation"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNotEditable    = errors.New("quotation is not editable")
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrItemNotFound   = errors.New("catalogue item not found")
)

// ItemNotFoundError reports a form line referencing an unknown catalogue item.
type ItemNotFoundError struct {
	Index  int
	ItemID uint
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("items[%d]: catalogue item %d not found", e.Index, e.ItemID)
}

func (e *ItemNotFoundError) Is(target error) bool { return target == ErrItemNotFound }

// Field is the form field the error belongs to.
func (e *ItemNotFoundError) Field() string {
	return "items[" + strconv.Itoa(e.Index) + "].item_id"
}

// DefaultTaxRate is applied when a quotation form omits the tax rate.
var DefaultTaxRate = decimal.NewFromInt(20)

var maxTaxRate = decimal.NewFromInt(100)

// ItemInput is one edited line of a quotation form. A nil quantity means 1; a
// nil unit cost with an ItemID copies the catalogue price.
type ItemInput struct {
	ItemID      *uint               `json:"item_id,omitempty"`
	Description string              `json:"description"`
	UnitCost    *quotetotals.Amount `json:"unit_cost,omitempty"`
	Quantity    *quotetotals.Amount `json:"quantity,omitempty"`
}

// QuotationInput is the body of a create, update or preview request.
type QuotationInput struct {
	ClientID      uint                `json:"client_id"`
	Title         string              `json:"title"`
	IssueDate     string              `json:"issue_date"`
	ValidUntil    string              `json:"valid_until"`
	DiscountKind  string              `json:"discount_kind"`
	DiscountValue quotetotals.Amount  `json:"discount_value"`
	TaxRate       *quotetotals.Amount `json:"tax_rate,omitempty"`
	Notes         string              `json:"notes"`
	Items         []ItemInput         `json:"items"`
}

var discountKindAliases = []string{"", "amount", "percentage", "percent", "pct", "%"}

// Validate records form violations. Amounts are never rejected for being
// negative since they are clamped when parsed.
func (in QuotationInput) Validate(v validation.Violations) {
	if in.ClientID == 0 {
		v["client_id"] = "required"
	}
	validation.OneOf("discount_kind", strings.ToLower(strings.TrimSpace(in.DiscountKind)),
		"invalid_discount_kind", v, discountKindAliases...)
	if in.TaxRate != nil {
		validation.RangeDecimal("tax_rate", in.TaxRate.Decimal, decimal.Zero, maxTaxRate, v)
	}
	if _, err := parseDate(in.IssueDate); err != nil {
		v["issue_date"] = "invalid_date"
	}
	if _, err := parseDate(in.ValidUntil); err != nil {
		v["valid_until"] = "invalid_date"
	}
	for i, it := range in.Items {
		if it.ItemID == nil {
			validation.Required("items["+strconv.Itoa(i)+"].description", it.Description, v)
		}
	}
}

// parseDate accepts YYYY-MM-DD or RFC 3339. An empty string is the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

type QuotationService struct {
	db *gorm.DB
}

func NewQuotationService(db *gorm.DB) *QuotationService {
	return &QuotationService{db: db}
}

// ComputeTotals derives the totals of q from its stored line totals, discount
// and tax rate.
func (s *QuotationService) ComputeTotals(q *models.Quotation) quotetotals.Totals {
	lines := make([]quotetotals.LineItem, len(q.Items))
	for i, it := range q.Items {
		lines[i] = quotetotals.LineItem{UnitCost: it.UnitCost, Quantity: it.Quantity, LineTotal: it.LineTotal}
	}
	rule := quotetotals.DiscountRule{
		Kind:  quotetotals.ParseDiscountKind(q.DiscountKind),
		Value: q.DiscountValue,
	}
	return quotetotals.Compute(lines, rule, q.TaxRate)
}

// ApplyItems replaces the lines of q with inputs, recomputing every line total.
// Catalogue references fill in a missing description or unit cost.
func (s *QuotationService) ApplyItems(ctx context.Context, q *models.Quotation, inputs []ItemInput) error {
	items := make([]models.QuotationItem, 0, len(inputs))
	for i, in := range inputs {
		qi := models.QuotationItem{
			QuotationID: q.ID,
			ItemID:      in.ItemID,
			Description: strings.TrimSpace(in.Description),
			Position:    i,
		}
		unitCost := decimal.Zero
		if in.UnitCost != nil {
			unitCost = in.UnitCost.Decimal
		}
		quantity := decimal.NewFromInt(1)
		if in.Quantity != nil {
			quantity = in.Quantity.Decimal
		}
		if in.ItemID != nil {
			var cat models.Item
			err := s.db.WithContext(ctx).First(&cat, *in.ItemID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ItemNotFoundError{Index: i, ItemID: *in.ItemID}
			}
			if err != nil {
				return err
			}
			if qi.Description == "" {
				qi.Description = cat.Name
			}
			if in.UnitCost == nil {
				unitCost = cat.UnitCost
			}
		}
		// Match the storage scale so the stored total equals stored cost times quantity.
		line := quotetotals.NewLineItem(unitCost.Round(2), quantity.Round(3))
		qi.UnitCost, qi.Quantity, qi.LineTotal = line.UnitCost, line.Quantity, line.LineTotal
		items = append(items, qi)
	}
	q.Items = items
	return nil
}

// Build maps a validated form onto a quotation without saving it.
func (s *QuotationService) Build(ctx context.Context, q *models.Quotation, in QuotationInput) error {
	q.ClientID = in.ClientID
	q.Title = strings.TrimSpace(in.Title)
	q.Notes = in.Notes
	q.DiscountKind = string(quotetotals.ParseDiscountKind(in.DiscountKind))
	q.DiscountValue = in.DiscountValue.Decimal.Round(2)
	q.TaxRate = DefaultTaxRate
	if in.TaxRate != nil {
		q.TaxRate = in.TaxRate.Decimal.Round(2)
	}
	issue, err := parseDate(in.IssueDate)
	if err != nil {
		return err
	}
	if !issue.IsZero() {
		q.IssueDate = issue
	}
	if q.IssueDate.IsZero() {
		q.IssueDate = time.Now().UTC()
	}
	valid, err := parseDate(in.ValidUntil)
	if err != nil {
		return err
	}
	q.ValidUntil = nil
	if !valid.IsZero() {
		q.ValidUntil = &valid
	}
	return s.ApplyItems(ctx, q, in.Items)
}

// Preview computes the totals of an unsaved form.
func (s *QuotationService) Preview(ctx context.Context, in QuotationInput) (*models.Quotation, quotetotals.Totals, error) {
	q := &models.Quotation{Status: models.QuotationStatusDraft}
	if err := s.Build(ctx, q, in); err != nil {
		return nil, quotetotals.Totals{}, err
	}
	return q, s.ComputeTotals(q), nil
}

func (s *QuotationService) checkClient(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Client{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrClientNotFound
	}
	return nil
}

// Create saves a new draft quotation with the next number of its issue year.
func (s *QuotationService) Create(ctx context.Context, in QuotationInput) (*models.Quotation, error) {
	q := &models.Quotation{Status: models.QuotationStatusDraft}
	if err := s.Build(ctx, q, in); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkClient(tx, q.ClientID); err != nil {
			return err
		}
		number, err := models.GenerateQuotationNumber(tx, q.IssueDate.Year())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		q.Number = number
		return tx.Create(q).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, q.ID)
}

// Update replaces the content of a draft quotation.
func (s *QuotationService) Update(ctx context.Context, id uint, in QuotationInput) (*models.Quotation, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.CanEdit() {
		return nil, ErrNotEditable
	}
	if err := s.Build(ctx, q, in); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkClient(tx, q.ClientID); err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", q.ID).Delete(&models.QuotationItem{}).Error; err != nil {
			return err
		}
		items := q.Items
		q.Items = nil
		q.Client = nil
		if err := tx.Save(q).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			for i := range items {
				items[i].ID = 0
				items[i].QuotationID = q.ID
			}
			return tx.Create(&items).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetStatus moves a quotation to status. Only drafts can be edited afterwards.
func (s *QuotationService) SetStatus(ctx context.Context, id uint, status models.QuotationStatus) (*models.Quotation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}
	res := s.db.WithContext(ctx).Model(&models.Quotation{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Get loads a quotation with its client and ordered lines.
func (s *QuotationService) Get(ctx context.Context, id uint) (*models.Quotation, error) {
	var q models.Quotation
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List loads every quotation with its client and lines, newest first.
func (s *QuotationService) List(ctx context.Context) ([]models.Quotation, error) {
	var qs []models.Quotation
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Items").
		Order("issue_date DESC, id DESC").
		Find(&qs).Error
	return qs, err
}

// Delete removes quotations and their lines. It returns how many quotations
// were deleted.
func (s *QuotationService) Delete(ctx context.Context, ids ...uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id IN ?", ids).Delete(&models.QuotationItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Quotation{})
		n = res.RowsAffected
		return res.Error
	})
	return n, err
}
