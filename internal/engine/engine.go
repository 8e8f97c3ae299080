// Package engine exposes the scholarship matching and application lifecycle
// operations behind a single facade. Scoring is stateless; mutation of a
// given application is serialized per application id.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gradlift/scholar-cli/internal/config"
	"github.com/gradlift/scholar-cli/internal/match"
	"github.com/gradlift/scholar-cli/internal/model"
	"github.com/gradlift/scholar-cli/internal/registry"
	"github.com/gradlift/scholar-cli/internal/store"
	"github.com/gradlift/scholar-cli/internal/tracker"
)

// Engine wires the readers, the store, and the matching configuration.
type Engine struct {
	profiles registry.ProfileReader
	catalog  registry.CatalogReader
	store    store.Store
	conv     *match.Converter

	maxReasons      int
	closingSoonDays int
	workers         int
	docValidity     time.Duration

	locks keyedLocks
}

// New builds an Engine from configuration and collaborators.
func New(profiles registry.ProfileReader, catalog registry.CatalogReader, st store.Store, matchCfg config.MatchConfig, lifecycleCfg config.LifecycleConfig) *Engine {
	workers := matchCfg.Workers
	if workers <= 0 {
		workers = 8
	}
	return &Engine{
		profiles:        profiles,
		catalog:         catalog,
		store:           st,
		conv:            match.NewConverter(matchCfg.ReferenceCurrency, matchCfg.CurrencyRates),
		maxReasons:      matchCfg.MaxReasons,
		closingSoonDays: matchCfg.ClosingSoonDays,
		workers:         workers,
		docValidity:     time.Duration(lifecycleCfg.DocumentValidityDays) * 24 * time.Hour,
	}
}

// GetRecommendations scores the catalog snapshot against the profile, applies
// filters, and ranks. Read-only and deterministic: identical inputs with an
// identical now yield identical ordered output.
func (e *Engine) GetRecommendations(ctx context.Context, profile model.Profile, filters match.Filters, now time.Time) ([]match.MatchResult, error) {
	scholarships, err := e.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	// Validate before fanning out: a malformed criterion fails the whole run.
	for _, s := range scholarships {
		if err := match.ValidateCriteria(s.Criteria); err != nil {
			return nil, err
		}
	}

	// Fan-out scoring: no shared mutable state, results land by index so the
	// catalog order survives for the stable sort.
	results := make([]match.MatchResult, len(scholarships))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, s := range scholarships {
		i, s := i, s
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = e.scoreOne(profile, s, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := filters.Apply(results)
	ranked := match.Rank(filtered, e.conv)

	zap.L().Debug("recommendations computed",
		zap.Int("catalog", len(scholarships)),
		zap.Int("returned", len(ranked)),
	)
	return ranked, nil
}

func (e *Engine) scoreOne(profile model.Profile, s model.Scholarship, now time.Time) match.MatchResult {
	evaluated := match.Evaluate(profile, s.Criteria)
	score, reasons, eligible, total := match.Score(evaluated, e.maxReasons)
	return match.MatchResult{
		ScholarshipID: s.ID,
		Score:         score,
		Reasons:       reasons,
		EligibleCount: eligible,
		TotalCount:    total,
		DaysRemaining: match.DaysRemaining(s.Deadline, now),
		ClosingSoon:   match.ClosingSoon(s.Deadline, now, e.closingSoonDays),
		AwardAmount:   s.AwardAmount,
		Currency:      s.Currency,
	}
}

// RecommendationsFor resolves the applicant's profile and scores the catalog.
func (e *Engine) RecommendationsFor(ctx context.Context, applicantID string, filters match.Filters, now time.Time) ([]match.MatchResult, error) {
	profile, err := e.profiles.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	return e.GetRecommendations(ctx, profile, filters, now)
}

// SubmitApplication creates an Applied application with the scholarship's
// required-document list snapshotted as a pending checklist.
func (e *Engine) SubmitApplication(ctx context.Context, applicantID, scholarshipID string, now time.Time) (*model.Application, error) {
	if _, err := e.profiles.Get(ctx, applicantID); err != nil {
		return nil, err
	}
	scholarship, err := e.catalog.Get(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}

	app := tracker.NewApplication(scholarship, applicantID, now)
	if err := e.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	zap.L().Info("application submitted",
		zap.String("application_id", app.ID),
		zap.String("scholarship_id", scholarshipID),
		zap.String("applicant_id", applicantID),
	)
	return app, nil
}

// AdvanceStatus moves an application along the state machine. The transition
// either fully applies or the stored application is untouched.
func (e *Engine) AdvanceStatus(ctx context.Context, applicationID string, target model.ApplicationStatus, now time.Time) (*model.Application, error) {
	unlock := e.locks.lock(applicationID)
	defer unlock()

	app, err := e.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	// Deadline and validity expiry run before the guard so a stale checklist
	// cannot admit an acceptance.
	expired := tracker.ExpireOverdue(app, now) + tracker.ExpireStaleUploads(app, e.docValidity, now)

	if err := tracker.Advance(app, target, now); err != nil {
		// Expiry is observable state; persist it even when the transition is
		// rejected, without touching status or timeline.
		if expired > 0 {
			if serr := e.store.UpdateApplication(ctx, app); serr != nil {
				zap.L().Warn("persist document expiry failed", zap.String("application_id", applicationID), zap.Error(serr))
			}
		}
		return nil, err
	}

	if err := e.store.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}

	zap.L().Info("application advanced",
		zap.String("application_id", applicationID),
		zap.String("status", string(target)),
	)
	return app, nil
}

// RecordDocumentUpload marks a checklist document as uploaded.
func (e *Engine) RecordDocumentUpload(ctx context.Context, applicationID, documentName string, now time.Time) (*model.Application, error) {
	unlock := e.locks.lock(applicationID)
	defer unlock()

	app, err := e.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	// Expiry first: an upload after the deadline lands on an expired
	// requirement and is rejected.
	expired := tracker.ExpireOverdue(app, now) + tracker.ExpireStaleUploads(app, e.docValidity, now)

	if err := tracker.RecordUpload(app, documentName, now); err != nil {
		// Same rule as AdvanceStatus: expiry is observable state and is
		// persisted even when the upload is rejected.
		if expired > 0 {
			if serr := e.store.UpdateApplication(ctx, app); serr != nil {
				zap.L().Warn("persist document expiry failed", zap.String("application_id", applicationID), zap.Error(serr))
			}
		}
		return nil, err
	}
	app.UpdatedAt = now

	if err := e.store.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetApplication fetches an application by id.
func (e *Engine) GetApplication(ctx context.Context, applicationID string) (*model.Application, error) {
	return e.store.GetApplication(ctx, applicationID)
}

// ListApplications lists applications matching the filter, newest first.
func (e *Engine) ListApplications(ctx context.Context, filter store.ApplicationFilter) ([]model.Application, error) {
	return e.store.ListApplications(ctx, filter)
}

// ToggleSaved flips the bookmark flag under optimistic concurrency. A stale
// expectedVersion fails with ConcurrentModificationError; the caller re-reads
// and retries.
func (e *Engine) ToggleSaved(ctx context.Context, scholarshipID string, expectedVersion int64) (*store.SavedState, error) {
	if _, err := e.catalog.Get(ctx, scholarshipID); err != nil {
		return nil, err
	}
	return e.store.ToggleSaved(ctx, scholarshipID, expectedVersion)
}
