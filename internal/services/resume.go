package services

import (
	"context"

	"github.com/google/uuid"

	"learnpath-backend/internal/models"
)

type ResumeKind string

const (
	ResumeKindResume ResumeKind = "resume"
	ResumeKindStart  ResumeKind = "start"
	ResumeKindNone   ResumeKind = "none"
)

// ResumeTarget is the "next action" for the course header CTA.
type ResumeTarget struct {
	URL  string     `json:"url"`
	Kind ResumeKind `json:"kind"`
}

// LastViewFinder is the slice of the view log the selector needs.
type LastViewFinder interface {
	FindLastViewed(ctx context.Context, userID uuid.UUID, courseID int64) (*models.ViewLogEntry, error)
}

// ResumeSelector picks the activity a learner should land on next:
// most-recently-viewed when the log has one, otherwise the first
// visible module with a view page.
type ResumeSelector struct {
	viewLog LastViewFinder
	baseURL string
}

func NewResumeSelector(viewLog LastViewFinder, baseURL string) *ResumeSelector {
	return &ResumeSelector{viewLog: viewLog, baseURL: baseURL}
}

func (s *ResumeSelector) Pick(ctx context.Context, mi *models.ModInfo, userID uuid.UUID) (ResumeTarget, error) {
	none := ResumeTarget{Kind: ResumeKindNone}
	if mi == nil || mi.Course == nil {
		return none, nil
	}

	if userID != uuid.Nil {
		entry, err := s.viewLog.FindLastViewed(ctx, userID, mi.Course.ID)
		if err != nil {
			return none, err
		}
		if entry != nil {
			// The logged module may have been deleted since; fall back
			// to the start selection when it no longer resolves.
			if cm, ok := mi.CMs[entry.CourseModuleID]; ok && cm.ViewURL(s.baseURL) != "" {
				return ResumeTarget{
					URL:  CanonicalModuleURL(s.baseURL, mi.Course.ID, cm.ModName, cm.ID),
					Kind: ResumeKindResume,
				}, nil
			}
		}
	}

	if first := s.firstActivity(mi); first != nil {
		return ResumeTarget{
			URL:  CanonicalModuleURL(s.baseURL, mi.Course.ID, first.ModName, first.ID),
			Kind: ResumeKindStart,
		}, nil
	}

	return none, nil
}

func (s *ResumeSelector) firstActivity(mi *models.ModInfo) *models.CourseModule {
	for _, si := range mi.Sections {
		for _, cm := range si.Modules {
			if cm.ModName == "label" || !cm.UserVisible {
				continue
			}
			if cm.ViewURL(s.baseURL) != "" {
				return cm
			}
		}
	}
	return nil
}
