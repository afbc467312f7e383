package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment method types.
const (
	MethodTypeDebit    = "debit"
	MethodTypeCredit   = "credit"
	MethodTypeCash     = "cash"
	MethodTypeTransfer = "transfer"
)

// Supported currency codes.
const (
	CurrencyUSD = "USD"
	CurrencyMXN = "MXN"
)

type PaymentMethod struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	MethodType      string    `json:"method_type"`
	DefaultCurrency string    `json:"default_currency"`
	Description     *string   `json:"description,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
