package models

import (
	"strconv"
	"time"
)

// Client represents a customer that receives quotations.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Client information
	Name        string `gorm:"size:255;not null" json:"name"`
	Email       string `gorm:"size:255" json:"email,omitempty"`
	Phone       string `gorm:"size:50" json:"phone,omitempty"`
	CompanyName string `gorm:"size:255" json:"company_name,omitempty"`

	// Address
	Address    string `gorm:"size:500" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`

	VATNumber string `gorm:"size:20" json:"vat_number,omitempty"`
}

// ClientSearchFields are the fields matched by the clients list filter.
var ClientSearchFields = []string{"name", "email", "company_name"}

func (c Client) GetID() uint { return c.ID }

func (c Client) Field(name string) string {
	switch name {
	case "id":
		return strconv.FormatUint(uint64(c.ID), 10)
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "phone":
		return c.Phone
	case "company_name":
		return c.CompanyName
	case "city":
		return c.City
	case "country":
		return c.Country
	case "vat_number":
		return c.VATNumber
	}
	return ""
}

// FullAddress returns the formatted full address.
func (c *Client) FullAddress() string {
	addr := c.Address
	if c.PostalCode != "" || c.City != "" {
		if addr != "" {
			addr += "\n"
		}
		addr += c.PostalCode
		if c.PostalCode != "" && c.City != "" {
			addr += " "
		}
		addr += c.City
	}
	if c.Country != "" {
		if addr != "" {
			addr += "\n"
		}
		addr += c.Country
	}
	return addr
}
