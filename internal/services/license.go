package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"

	"learnpath-backend/internal/models"
	"learnpath-backend/internal/repository"
)

const licenseStatusCacheKey = "license:status"

// LicenseService talks to the vendor licensing endpoint. A missing or
// expired license only produces an admin notice; nothing is ever gated
// on it.
type LicenseService struct {
	licenses *repository.LicenseRepo
	redis    *redis.Client
	client   *resty.Client
	product  string
}

type licenseVerifyResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expires_at"`
}

func NewLicenseService(licenses *repository.LicenseRepo, redisClient *redis.Client, endpoint, product string) *LicenseService {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &LicenseService{
		licenses: licenses,
		redis:    redisClient,
		client:   client,
		product:  product,
	}
}

// Activate registers a license key with the vendor and stores the
// verdict locally.
func (s *LicenseService) Activate(ctx context.Context, key string) (*models.License, error) {
	if key == "" {
		return nil, &ValidationError{Message: "license key is required"}
	}

	var verdict licenseVerifyResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"license_key": key, "product": s.product}).
		SetResult(&verdict).
		Post("/activate")
	if err != nil {
		return nil, fmt.Errorf("license endpoint unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, &ValidationError{Message: fmt.Sprintf("license activation rejected (%d)", resp.StatusCode())}
	}

	license := &models.License{
		Key:       key,
		Status:    licenseStatus(verdict.Status),
		CheckedAt: time.Now(),
	}
	if verdict.ExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339, verdict.ExpiresAt); err == nil {
			license.ExpiresAt = &t
		}
	}

	if err := s.licenses.Save(ctx, license); err != nil {
		return nil, fmt.Errorf("failed to save license: %w", err)
	}
	s.cacheStatus(ctx, license.Status)
	return license, nil
}

// Status returns the current license state, preferring the short-lived
// cache over a database read.
func (s *LicenseService) Status(ctx context.Context) (models.LicenseStatus, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, licenseStatusCacheKey).Result(); err == nil && cached != "" {
			return models.LicenseStatus(cached), nil
		}
	}

	license, err := s.licenses.Get(ctx)
	if err != nil {
		return models.LicenseMissing, fmt.Errorf("failed to load license: %w", err)
	}
	s.cacheStatus(ctx, license.Status)
	return license.Status, nil
}

// Notice renders the admin-facing banner text for a non-available
// license. Empty when everything is fine or the viewer is not an admin.
func (s *LicenseService) Notice(ctx context.Context, isAdmin bool) string {
	if !isAdmin {
		return ""
	}
	status, err := s.Status(ctx)
	if err != nil {
		return ""
	}
	switch status {
	case models.LicenseAvailable:
		return ""
	case models.LicenseExpired:
		return "Your license has expired. Renew it to keep receiving updates."
	case models.LicenseInvalid:
		return "Your license key could not be verified."
	default:
		return "No license key configured for this site."
	}
}

// Reverify re-checks the stored key against the vendor. Scheduled daily;
// network failures keep the previous verdict.
func (s *LicenseService) Reverify(ctx context.Context) {
	license, err := s.licenses.Get(ctx)
	if err != nil || license.Key == "" {
		return
	}

	var verdict licenseVerifyResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"license_key": license.Key, "product": s.product}).
		SetResult(&verdict).
		Post("/verify")
	if err != nil {
		log.Printf("License re-verification skipped, endpoint unreachable: %v", err)
		return
	}
	if resp.IsError() {
		log.Printf("License re-verification failed with status %d", resp.StatusCode())
		return
	}

	license.Status = licenseStatus(verdict.Status)
	license.CheckedAt = time.Now()
	if err := s.licenses.Save(ctx, license); err != nil {
		log.Printf("Failed to save re-verified license: %v", err)
		return
	}
	s.cacheStatus(ctx, license.Status)
}

func (s *LicenseService) cacheStatus(ctx context.Context, status models.LicenseStatus) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, licenseStatusCacheKey, string(status), time.Hour).Err(); err != nil {
		log.Printf("Failed to cache license status: %v", err)
	}
}

func licenseStatus(raw string) models.LicenseStatus {
	switch raw {
	case "available", "active", "valid":
		return models.LicenseAvailable
	case "expired":
		return models.LicenseExpired
	default:
		return models.LicenseInvalid
	}
}
