package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/participant"
	"github.com/redis/go-redis/v9"
)

const pendingEditKeyPrefix = "participant:pending_edit:"

type pendingEditStore struct {
	client *redis.Client
}

func NewPendingEditStore(client *redis.Client) participant.PendingEditStore {
	return &pendingEditStore{client: client}
}

func pendingEditKey(token string) string {
	return pendingEditKeyPrefix + token
}

func (s *pendingEditStore) Save(ctx context.Context, edit participant.PendingEdit, ttl time.Duration) error {
	payload, err := json.Marshal(edit)
	if err != nil {
		return fmt.Errorf("encode pending edit: %w", err)
	}

	if err := s.client.Set(ctx, pendingEditKey(edit.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store pending edit: %w", err)
	}
	return nil
}

func (s *pendingEditStore) Get(ctx context.Context, token string) (participant.PendingEdit, error) {
	return s.read(s.client.Get(ctx, pendingEditKey(token)))
}

// Take consumes the token with GETDEL so concurrent confirmations cannot both apply it
func (s *pendingEditStore) Take(ctx context.Context, token string) (participant.PendingEdit, error) {
	return s.read(s.client.GetDel(ctx, pendingEditKey(token)))
}

func (s *pendingEditStore) read(cmd *redis.StringCmd) (participant.PendingEdit, error) {
	payload, err := cmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return participant.PendingEdit{}, participant.ErrPendingEditNotFound
		}
		return participant.PendingEdit{}, fmt.Errorf("load pending edit: %w", err)
	}

	var edit participant.PendingEdit
	if err := json.Unmarshal(payload, &edit); err != nil {
		return participant.PendingEdit{}, fmt.Errorf("decode pending edit: %w", err)
	}
	return edit, nil
}
