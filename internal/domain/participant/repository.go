package participant

import (
	"context"
	"time"
)

// ParticipantRepository - interface for participants table
type ParticipantRepository interface {
	GetByID(ctx context.Context, id string) (Participant, error)
	List(ctx context.Context, filter ParticipantFilter) ([]Participant, int64, error)
	Update(ctx context.Context, id string, req UpdateParticipantRequest) error
}

// PendingEditStore keeps staged edits until they are confirmed or expire
type PendingEditStore interface {
	Save(ctx context.Context, edit PendingEdit, ttl time.Duration) error
	Get(ctx context.Context, token string) (PendingEdit, error)
	// Take returns the edit and removes it in one step; only one caller can take a token
	Take(ctx context.Context, token string) (PendingEdit, error)
}
