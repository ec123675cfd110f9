package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/diewo77/go-quotes/internal/config"
	"github.com/diewo77/go-quotes/internal/models"
)

func e2eConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Load()
	cfg.Database = config.DatabaseConfig{
		Driver:  "sqlite",
		RawDSN:  "file:e2e_" + t.Name() + "?mode=memory&cache=shared",
		Retries: 1,
	}
	cfg.App.Seed = true
	cfg.App.Migrations = false
	cfg.RateLimit.RPS = 0
	return cfg
}

func TestSeededAppE2E(t *testing.T) {
	app, err := NewApp(e2eConfig(t), zap.NewNop(), modeServe)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	srv := httptest.NewServer(app.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/items?q=h%C3%A9berg")
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-ID"); id == "" {
		t.Fatal("missing request id header")
	}
	var list struct {
		Total int           `json:"total"`
		Items []models.Item `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 1 || list.Items[0].Code != "HEB-M" {
		t.Fatalf("unexpected list %+v", list)
	}

	var c models.Client
	if err := app.DB.Where("email = ?", "alice@example.com").First(&c).Error; err != nil {
		t.Fatalf("seeded client missing: %v", err)
	}
	body := `{"client_id":` + jsonUint(c.ID) + `,"items":[{"item_id":1,"quantity":"2"}]}`
	resp2, err := http.Post(srv.URL+"/api/quotations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp2.StatusCode)
	}
	var q struct {
		Items []models.QuotationItem `json:"items"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&q); err != nil {
		t.Fatalf("decode quotation: %v", err)
	}
	if len(q.Items) != 1 || q.Items[0].Description != "Développement" || q.Items[0].LineTotal.String() != "160" {
		t.Fatalf("catalogue line not applied: %+v", q.Items)
	}
}

func TestMigrateOnlyStops(t *testing.T) {
	app, err := NewApp(e2eConfig(t), zap.NewNop(), modeMigrateOnly)
	if err != nil {
		t.Fatalf("migrate only: %v", err)
	}
	if app != nil {
		t.Fatal("expected no app in migrate-only mode")
	}
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
