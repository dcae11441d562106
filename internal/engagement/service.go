// Package engagement raises the dashboard's morning briefing and ghost
// alerts and reports progress toward the active revenue goal.
package engagement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/logger"
)

const (
	// StaleAfter is how long an Active lead may go untouched.
	StaleAfter = 7 * 24 * time.Hour
	// StaleLimit caps the stale candidates fetched per check.
	StaleLimit = 3
	// GhostCooldown is the minimum gap between ghost alerts for one device.
	GhostCooldown = time.Hour
	// CloseThreshold is the progress ratio from which a goal counts as close.
	CloseThreshold = 0.8

	dayLayout = "2006-01-02"
)

// LeadStats is the lead data engagement reads.
type LeadStats interface {
	StaleLeads(ctx context.Context, before time.Time, limit int) ([]StaleLead, error)
	WonRevenueSince(ctx context.Context, since time.Time) (float64, error)
}

// GoalTarget yields the revenue target of the active goal.
type GoalTarget interface {
	RevenueTarget(ctx context.Context) (amount float64, ok bool, err error)
}

// Notifier raises in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Service runs engagement checks.
type Service struct {
	leads    LeadStats
	goals    GoalTarget
	notifier Notifier
	markers  MarkerStore
	log      *logger.Logger
	now      func() time.Time
}

func NewService(leads LeadStats, goals GoalTarget, notifier Notifier, markers MarkerStore, log *logger.Logger) *Service {
	if markers == nil {
		markers = NewMemoryMarkerStore()
	}
	return &Service{
		leads:    leads,
		goals:    goals,
		notifier: notifier,
		markers:  markers,
		log:      log,
		now:      time.Now,
	}
}

// Check runs the engagement rules for one device and returns the
// notifications it raised. Every failure degrades to raising nothing.
func (s *Service) Check(ctx context.Context, deviceID string, loc *time.Location) CheckResult {
	return s.Run(ctx, deviceID, loc, s.now())
}

// Run is Check with an explicit clock.
func (s *Service) Run(ctx context.Context, deviceID string, loc *time.Location, now time.Time) CheckResult {
	if loc == nil {
		loc = time.UTC
	}
	raised := make([]Notification, 0, 2)
	log := s.log.WithContext(ctx)

	day := now.In(loc).Format(dayLayout)
	claimed, err := s.markers.ClaimBriefing(ctx, deviceID, day)
	if err != nil {
		log.Warn("briefing marker unavailable", slog.String("error", err.Error()))
	} else if claimed {
		if n, ok := s.raise(ctx, MorningBriefing()); ok {
			raised = append(raised, n)
		}
	}

	stale, err := s.leads.StaleLeads(ctx, now.Add(-StaleAfter), StaleLimit)
	if err != nil {
		log.Warn("stale lead check failed", slog.String("error", err.Error()))
		return CheckResult{Notifications: raised}
	}
	if len(stale) == 0 {
		return CheckResult{Notifications: raised}
	}

	claimed, err = s.markers.ClaimGhostAlert(ctx, deviceID, now, GhostCooldown)
	if err != nil {
		log.Warn("ghost alert marker unavailable", slog.String("error", err.Error()))
		return CheckResult{Notifications: raised}
	}
	if claimed {
		if n, ok := s.raise(ctx, GhostAlert(stale[0])); ok {
			raised = append(raised, n)
		}
	}

	return CheckResult{Notifications: raised}
}

func (s *Service) raise(ctx context.Context, n Notification) (Notification, bool) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.WithContext(ctx).Warn("engagement notification failed",
			slog.String("title", n.Title),
			slog.String("error", err.Error()),
		)
		return Notification{}, false
	}
	return n, true
}

// MorningBriefing is the once-a-day greeting.
func MorningBriefing() Notification {
	return Notification{
		Type:    "info",
		Title:   "Morning Briefing",
		Message: "Welcome back. Let's crush the targets today.",
		Link:    "#",
	}
}

// GhostAlert names a lead that has gone quiet.
func GhostAlert(lead StaleLead) Notification {
	return Notification{
		Type:    "warning",
		Title:   "Ghost Alert",
		Message: fmt.Sprintf("%s hasn't been touched in 7 days. They are slipping away.", lead.BusinessName),
		Link:    fmt.Sprintf("/leads/%s/onboarding", lead.ID),
	}
}

// StaleLeads lists the current stale candidates, oldest first.
func (s *Service) StaleLeads(ctx context.Context) ([]StaleLead, error) {
	leads, err := s.leads.StaleLeads(ctx, s.now().Add(-StaleAfter), StaleLimit)
	if err != nil {
		return nil, apperr.Storage("engagement.stale", err)
	}
	return leads, nil
}

// GoalProgress measures revenue won since the start of now's month against
// the active goal. ok is false when there is no goal with an amount or a
// lookup fails.
func (s *Service) GoalProgress(ctx context.Context, now time.Time) (Progress, bool) {
	target, ok, err := s.goals.RevenueTarget(ctx)
	if err != nil {
		s.log.WithContext(ctx).Warn("goal lookup failed", slog.String("error", err.Error()))
		return Progress{}, false
	}
	if !ok {
		return Progress{}, false
	}

	current, err := s.leads.WonRevenueSince(ctx, startOfMonth(now))
	if err != nil {
		s.log.WithContext(ctx).Warn("won revenue lookup failed", slog.String("error", err.Error()))
		return Progress{}, false
	}

	return ComputeProgress(current, target), true
}

// ComputeProgress derives the ratio and the close flag. A zero target is
// treated as one so the ratio stays finite.
func ComputeProgress(current, target float64) Progress {
	denominator := target
	if denominator == 0 {
		denominator = 1
	}
	ratio := current / denominator
	return Progress{
		CurrentAmount: current,
		TargetAmount:  target,
		Progress:      ratio,
		IsClose:       ratio >= CloseThreshold && ratio < 1.0,
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
