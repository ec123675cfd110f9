package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/internal/models"
	"github.com/diewo77/go-quotes/quotetotals"
)

// RecentLimit is the number of quotations listed on the dashboard.
const RecentLimit = 5

type RecentQuotation struct {
	ID         uint                   `json:"id"`
	Number     string                 `json:"number"`
	ClientName string                 `json:"client_name"`
	Status     models.QuotationStatus `json:"status"`
	IssueDate  time.Time              `json:"issue_date"`
	Totals     quotetotals.Totals     `json:"totals"`
}

type Summary struct {
	Items      int64            `json:"items"`
	Clients    int64            `json:"clients"`
	Quotations int64            `json:"quotations"`
	ByStatus   map[string]int64 `json:"by_status"`
	// Accepted sums the totals of every accepted quotation
	Accepted quotetotals.Totals `json:"accepted"`
	Recent   []RecentQuotation  `json:"recent"`
}

type DashboardService struct {
	db     *gorm.DB
	quotes *QuotationService
}

func NewDashboardService(db *gorm.DB, quotes *QuotationService) *DashboardService {
	return &DashboardService{db: db, quotes: quotes}
}

// Summary gathers the counters, accepted revenue and latest quotations.
func (s *DashboardService) Summary(ctx context.Context) (*Summary, error) {
	db := s.db.WithContext(ctx)
	out := &Summary{ByStatus: make(map[string]int64, len(models.QuotationStatuses))}
	if err := db.Model(&models.Item{}).Count(&out.Items).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Client{}).Count(&out.Clients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Quotation{}).Count(&out.Quotations).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		N      int64
	}
	if err := db.Model(&models.Quotation{}).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, st := range models.QuotationStatuses {
		out.ByStatus[string(st)] = 0
	}
	for _, r := range rows {
		out.ByStatus[r.Status] = r.N
	}

	var accepted []models.Quotation
	if err := db.Preload("Items").Where("status = ?", models.QuotationStatusAccepted).Find(&accepted).Error; err != nil {
		return nil, err
	}
	sum := quotetotals.Totals{
		Subtotal: decimal.Zero, Discount: decimal.Zero, Net: decimal.Zero, Tax: decimal.Zero, Gross: decimal.Zero,
	}
	for i := range accepted {
		t := s.quotes.ComputeTotals(&accepted[i])
		sum.Subtotal = sum.Subtotal.Add(t.Subtotal)
		sum.Discount = sum.Discount.Add(t.Discount)
		sum.Net = sum.Net.Add(t.Net)
		sum.Tax = sum.Tax.Add(t.Tax)
		sum.Gross = sum.Gross.Add(t.Gross)
	}
	out.Accepted = sum.Round()

	var recent []models.Quotation
	err := db.Preload("Client").Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(RecentLimit).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}
	out.Recent = make([]RecentQuotation, 0, len(recent))
	for i := range recent {
		q := &recent[i]
		rq := RecentQuotation{
			ID:        q.ID,
			Number:    q.Number,
			Status:    q.Status,
			IssueDate: q.IssueDate,
			Totals:    s.quotes.ComputeTotals(q).Round(),
		}
		if q.Client != nil {
			rq.ClientName = q.Client.Name
		}
		out.Recent = append(out.Recent, rq)
	}
	return out, nil
}
