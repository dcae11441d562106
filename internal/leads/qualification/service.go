// Package qualification stores BANT answers in the lead's extension bag.
package qualification

import (
	"context"
	"errors"
	"time"

	"sales_pipeline_backend/internal/leads/domain"
	"sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/internal/leads/transport"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/sanitize"

	"github.com/google/uuid"
)

type Service struct {
	repo repository.ExtensionBagWriter
	now  func() time.Time
}

func New(repo repository.ExtensionBagWriter) *Service {
	return &Service{repo: repo, now: time.Now}
}

// MergeBANT replaces raw_data.bant with exactly the submitted answers and records a
// BANT Update activity carrying the same values. Other raw_data keys are kept.
func (s *Service) MergeBANT(ctx context.Context, leadID uuid.UUID, req transport.BANTRequest) (transport.LeadResponse, error) {
	bant := domain.BANT{
		Budget:    sanitize.TextPtr(req.Budget),
		Authority: sanitize.TextPtr(req.Authority),
		Need:      sanitize.TextPtr(req.Need),
		Timing:    sanitize.TextPtr(req.Timing),
	}
	section := bant.AsMap()

	lead, err := s.repo.MergeRawData(ctx, repository.MergeRawDataParams{
		LeadID: leadID,
		Key:    domain.BagKeyBANT,
		Value:  section,
		At:     s.now().UTC(),
		Activity: &repository.ActivityEntry{
			ActionType: domain.ActionBANTUpdate,
			Metadata:   section,
		},
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Storage("qualification.merge_bant", err)
	}
	return transport.ToLeadResponse(lead), nil
}
