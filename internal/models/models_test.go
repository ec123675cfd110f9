package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestItem_Field(t *testing.T) {
	it := Item{ID: 7, Code: "SRV-01", Name: "Audit", Category: "services", UnitCost: decimal.RequireFromString("120.50"), IsActive: true}
	tests := map[string]string{
		"id":        "7",
		"code":      "SRV-01",
		"name":      "Audit",
		"category":  "services",
		"unit_cost": "120.5",
		"is_active": "true",
		"missing":   "",
	}
	for field, want := range tests {
		if got := it.Field(field); got != want {
			t.Errorf("Field(%q) = %q, want %q", field, got, want)
		}
	}
	if it.GetID() != 7 {
		t.Errorf("GetID() = %d, want 7", it.GetID())
	}
}

func TestClient_FullAddress(t *testing.T) {
	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{
			name: "full address",
			client: Client{
				Address:    "123 Main St",
				PostalCode: "75001",
				City:       "Paris",
				Country:    "France",
			},
			want: "123 Main St\n75001 Paris\nFrance",
		},
		{
			name:   "only city",
			client: Client{City: "Paris"},
			want:   "Paris",
		},
		{
			name:   "empty",
			client: Client{},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.FullAddress(); got != tt.want {
				t.Errorf("FullAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuotation_Field(t *testing.T) {
	q := Quotation{Number: "QUO-2025-0001", Status: QuotationStatusSent}
	if q.Field("client_name") != "" {
		t.Errorf("client_name without a loaded client should be empty")
	}
	q.Client = &Client{Name: "Alice"}
	if q.Field("client_name") != "Alice" || q.Field("status") != "sent" {
		t.Errorf("unexpected fields %q %q", q.Field("client_name"), q.Field("status"))
	}
}

func TestQuotation_Status(t *testing.T) {
	tests := []struct {
		status  QuotationStatus
		canEdit bool
	}{
		{QuotationStatusDraft, true},
		{QuotationStatusSent, false},
		{QuotationStatusAccepted, false},
		{QuotationStatusRejected, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			q := &Quotation{Status: tt.status}
			if got := q.CanEdit(); got != tt.canEdit {
				t.Errorf("CanEdit() = %v, want %v", got, tt.canEdit)
			}
			if !tt.status.Valid() {
				t.Errorf("%s should be valid", tt.status)
			}
		})
	}
	if QuotationStatus("lost").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestQuotation_IsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	q := &Quotation{}
	if q.IsExpired(now) {
		t.Error("no validity date never expires")
	}
	q.ValidUntil = &past
	if !q.IsExpired(now) {
		t.Error("expected expired")
	}
}

func TestGenerateQuotationNumber(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Client{}, &Quotation{}, &QuotationItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	n, err := GenerateQuotationNumber(db, 2025)
	if err != nil || n != "QUO-2025-0001" {
		t.Fatalf("first number = %q, %v", n, err)
	}

	c := Client{Name: "Alice"}
	db.Create(&c)
	for _, num := range []string{"QUO-2025-0001", "QUO-2025-0002", "QUO-2024-0009"} {
		q := Quotation{Number: num, ClientID: c.ID, IssueDate: time.Now(), Status: QuotationStatusDraft}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	n, err = GenerateQuotationNumber(db, 2025)
	if err != nil || n != "QUO-2025-0003" {
		t.Fatalf("next number = %q, %v", n, err)
	}
	n, _ = GenerateQuotationNumber(db, 2026)
	if n != "QUO-2026-0001" {
		t.Fatalf("new year number = %q", n)
	}
}

func TestGenerateQuotationNumber_PastFourDigits(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Client{}, &Quotation{}, &QuotationItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	c := Client{Name: "Alice"}
	db.Create(&c)

	db.Create(&Quotation{Number: "QUO-2025-9999", ClientID: c.ID, IssueDate: time.Now(), Status: QuotationStatusDraft})

	for _, want := range []string{"QUO-2025-10000", "QUO-2025-10001"} {
		n, err := GenerateQuotationNumber(db, 2025)
		if err != nil || n != want {
			t.Fatalf("next number = %q, %v; want %q", n, err, want)
		}
		if err := db.Create(&Quotation{Number: n, ClientID: c.ID, IssueDate: time.Now(), Status: QuotationStatusDraft}).Error; err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}
}
