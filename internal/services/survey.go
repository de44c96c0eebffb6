package services

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"learnpath-backend/internal/repository"
)

const (
	installTimeSetting = "install_time"
	surveyDonePref     = "survey_collected"
)

// SurveyService gates the one-time feedback survey prompt: admins only,
// not before the site has been installed for the configured delay, and
// never again once answered or dismissed.
type SurveyService struct {
	settings *repository.SettingsRepo
	users    *repository.UserRepo
	delay    time.Duration
}

func NewSurveyService(settings *repository.SettingsRepo, users *repository.UserRepo, delayHours int) *SurveyService {
	return &SurveyService{
		settings: settings,
		users:    users,
		delay:    time.Duration(delayHours) * time.Hour,
	}
}

// RecordInstallTime stores the first-boot timestamp. Subsequent boots
// are no-ops.
func (s *SurveyService) RecordInstallTime(ctx context.Context) error {
	return s.settings.SetIfUnset(ctx, installTimeSetting, strconv.FormatInt(time.Now().Unix(), 10))
}

// ShouldShow decides whether this request renders the survey prompt.
// Failures err on the side of not showing it.
func (s *SurveyService) ShouldShow(ctx context.Context, userID uuid.UUID, isAdmin bool) bool {
	if !isAdmin || userID == uuid.Nil {
		return false
	}

	raw, err := s.settings.Get(ctx, installTimeSetting)
	if err != nil || raw == "" {
		return false
	}
	installed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	if time.Since(time.Unix(installed, 0)) < s.delay {
		return false
	}

	done, err := s.users.GetPreference(ctx, userID, surveyDonePref)
	if err != nil {
		log.Printf("Failed to read survey preference for user %s: %v", userID, err)
		return false
	}
	return done != "1"
}

// MarkDone records that the user answered or dismissed the survey.
func (s *SurveyService) MarkDone(ctx context.Context, userID uuid.UUID) error {
	return s.users.SetPreference(ctx, userID, surveyDonePref, "1")
}
