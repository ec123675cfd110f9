package db

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/internal/models"
)

// Seed inserts the demo catalogue and clients. Running it twice is a no-op.
func Seed(conn *gorm.DB) error {
	baseItems := []models.Item{
		{Code: "DEV-H", Name: "Développement", Unit: "h", Category: "services", UnitCost: decimal.NewFromInt(80), IsActive: true},
		{Code: "AUD-J", Name: "Audit de sécurité", Unit: "jour", Category: "services", UnitCost: decimal.NewFromInt(650), IsActive: true},
		{Code: "HEB-M", Name: "Hébergement", Unit: "mois", Category: "abonnement", UnitCost: decimal.RequireFromString("29.90"), IsActive: true},
		{Code: "SSD-1T", Name: "Disque SSD 1 To", Unit: "pc", Category: "matériel", UnitCost: decimal.RequireFromString("89.00"), IsActive: true},
	}
	for _, it := range baseItems {
		var existing models.Item
		err := conn.Where("code = ?", it.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := conn.Create(&it).Error; err != nil {
				return fmt.Errorf("seed item %s: %w", it.Code, err)
			}
		} else if err != nil {
			return err
		}
	}

	baseClients := []models.Client{
		{Name: "Alice Martin", Email: "alice@example.com", CompanyName: "Martin SARL", City: "Lyon", PostalCode: "69001", Country: "France"},
		{Name: "Bob Durand", Email: "bob@example.com", City: "Paris", PostalCode: "75011", Country: "France"},
		{Name: "Élodie Petit", Email: "elodie@example.com", CompanyName: "Petit & Fils", City: "Nantes", Country: "France"},
	}
	for _, c := range baseClients {
		var existing models.Client
		err := conn.Where("email = ?", c.Email).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := conn.Create(&c).Error; err != nil {
				return fmt.Errorf("seed client %s: %w", c.Email, err)
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
