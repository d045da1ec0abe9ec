package participant

import "context"

type ParticipantService interface {
	List(ctx context.Context, filter ParticipantFilter) (*ListParticipantResponse, error)
	Get(ctx context.Context, id string) (*ParticipantResponse, error)

	// StageEdit validates a change and holds it until the site is confirmed
	StageEdit(ctx context.Context, id string, req UpdateParticipantRequest) (*PendingEdit, error)

	// ConfirmEdit commits a staged edit when the selected site matches the participant's site.
	// A mismatch leaves the edit staged.
	ConfirmEdit(ctx context.Context, token string, req ConfirmEditRequest) (*ParticipantResponse, error)
}
