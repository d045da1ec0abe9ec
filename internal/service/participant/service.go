package participant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/participant"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ParticipantServiceImpl struct {
	participantRepo participant.ParticipantRepository
	edits           participant.PendingEditStore
	editTTL         time.Duration
	now             func() time.Time
}

func NewParticipantService(repo participant.ParticipantRepository, edits participant.PendingEditStore, editTTL time.Duration) participant.ParticipantService {
	return &ParticipantServiceImpl{
		participantRepo: repo,
		edits:           edits,
		editTTL:         editTTL,
		now:             time.Now,
	}
}

func (s *ParticipantServiceImpl) load(ctx context.Context, id string) (participant.Participant, error) {
	p, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return participant.Participant{}, participant.ErrParticipantNotFound
		}
		return participant.Participant{}, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// List implements participant.ParticipantService.
func (s *ParticipantServiceImpl) List(ctx context.Context, filter participant.ParticipantFilter) (*participant.ListParticipantResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	items, total, err := s.participantRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	responses := make([]participant.ParticipantResponse, 0, len(items))
	for _, p := range items {
		responses = append(responses, participant.ToResponse(p))
	}

	return &participant.ListParticipantResponse{
		TotalCount:   total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
		Participants: responses,
	}, nil
}

// Get implements participant.ParticipantService.
func (s *ParticipantServiceImpl) Get(ctx context.Context, id string) (*participant.ParticipantResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := participant.ToResponse(p)
	return &resp, nil
}

// StageEdit implements participant.ParticipantService.
func (s *ParticipantServiceImpl) StageEdit(ctx context.Context, id string, req participant.UpdateParticipantRequest) (*participant.PendingEdit, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	edit := participant.PendingEdit{
		Token:         uuid.New().String(),
		ParticipantID: id,
		Changes:       req,
		ExpiresAt:     s.now().Add(s.editTTL),
	}
	if err := s.edits.Save(ctx, edit, s.editTTL); err != nil {
		return nil, fmt.Errorf("failed to stage participant edit: %w", err)
	}
	return &edit, nil
}

// ConfirmEdit implements participant.ParticipantService.
func (s *ParticipantServiceImpl) ConfirmEdit(ctx context.Context, token string, req participant.ConfirmEditRequest) (*participant.ParticipantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	edit, err := s.edits.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	p, err := s.load(ctx, edit.ParticipantID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(strings.TrimSpace(req.Site), strings.TrimSpace(p.Site)) {
		slog.Info("participant edit blocked by site mismatch",
			"participant_id", p.ID,
			"selected_site", req.Site,
		)
		return nil, participant.ErrSiteMismatch
	}

	// the site check above leaves the edit staged; from here on the token is consumed
	edit, err = s.edits.Take(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.participantRepo.Update(ctx, p.ID, edit.Changes); err != nil {
		s.restage(ctx, edit)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, participant.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}

	return s.Get(ctx, p.ID)
}

// restage puts back an edit whose commit failed, for the rest of its lifetime
func (s *ParticipantServiceImpl) restage(ctx context.Context, edit participant.PendingEdit) {
	ttl := edit.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.edits.Save(context.WithoutCancel(ctx), edit, ttl); err != nil {
		slog.Warn("failed to restage participant edit", "token", edit.Token, "error", err)
	}
}
