package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuotaCall struct {
	Timestamp time.Time `json:"timestamp"`
	Endpoint  string    `json:"endpoint"`
	Cost      int       `json:"cost"`
}

// QuotaState is the stored daily ledger. Date is the Pacific-time calendar date.
type QuotaState struct {
	Date  string      `json:"date"`
	Usage int         `json:"usage"`
	Calls []QuotaCall `json:"calls"`
}

type ResetIn struct {
	Hours             int   `json:"hours"`
	Minutes           int   `json:"minutes"`
	TotalMilliseconds int64 `json:"totalMilliseconds"`
}

type QuotaStatus struct {
	Date       string          `json:"date"`
	Usage      int             `json:"usage"`
	Limit      int             `json:"limit"`
	Remaining  int             `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	Calls      int             `json:"calls"`
	ResetAt    time.Time       `json:"resetAt"`
	ResetTime  ResetIn         `json:"resetTime"`
}
