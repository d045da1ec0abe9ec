package submission

import (
	"context"
	"io"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
)

// ProofFile is an uploaded proof attachment
type ProofFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type SubmissionService interface {
	// Create records a staff member's work against one of their assignments
	Create(ctx context.Context, actor user.Actor, req CreateSubmissionRequest, proof *ProofFile) (SubmissionResponse, error)

	// List returns submissions visible to the actor
	List(ctx context.Context, actor user.Actor, filter SubmissionFilter) (ListSubmissionResponse, error)

	// Get returns one submission if visible to the actor
	Get(ctx context.Context, actor user.Actor, id string) (SubmissionResponse, error)

	// Verify approves or rejects a submission and mirrors the result on its assignment
	Verify(ctx context.Context, actor user.Actor, id string, req VerifySubmissionRequest) (SubmissionResponse, error)
}
