package models

import (
	"time"
)

type LicenseStatus string

const (
	LicenseAvailable LicenseStatus = "available"
	LicenseExpired   LicenseStatus = "expired"
	LicenseInvalid   LicenseStatus = "invalid"
	LicenseMissing   LicenseStatus = "missing"
)

type License struct {
	Key       string        `json:"key"`
	Status    LicenseStatus `json:"status"`
	ExpiresAt *time.Time    `json:"expires_at"`
	CheckedAt time.Time     `json:"checked_at"`
}

type ActivateLicenseRequest struct {
	Key string `json:"key" validate:"required,min=8"`
}
