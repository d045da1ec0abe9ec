package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/participant"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type participantRepositoryImpl struct {
	db *database.DB
}

func NewParticipantRepository(db *database.DB) participant.ParticipantRepository {
	return &participantRepositoryImpl{db: db}
}

const participantSelect = `
		SELECT id, name, email, team, site, hostel, travel_mode, arrival_date, created_at, updated_at
		FROM participants`

func scanParticipant(row pgx.Row) (participant.Participant, error) {
	var p participant.Participant
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Team, &p.Site, &p.Hostel,
		&p.TravelMode, &p.ArrivalDate, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// GetByID implements participant.ParticipantRepository.
func (r *participantRepositoryImpl) GetByID(ctx context.Context, id string) (participant.Participant, error) {
	q := GetQuerier(ctx, r.db)
	return scanParticipant(q.QueryRow(ctx, participantSelect+"\n\t\tWHERE id = $1", id))
}

// List implements participant.ParticipantRepository.
func (r *participantRepositoryImpl) List(ctx context.Context, filter participant.ParticipantFilter) ([]participant.Participant, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Site != nil && *filter.Site != "" {
		whereClause += fmt.Sprintf(" AND site = $%d", argIndex)
		args = append(args, *filter.Site)
		argIndex++
	}

	if filter.Hostel != nil && *filter.Hostel != "" {
		whereClause += fmt.Sprintf(" AND hostel = $%d", argIndex)
		args = append(args, *filter.Hostel)
		argIndex++
	}

	if filter.Search != nil && *filter.Search != "" {
		whereClause += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM participants "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s\n\t\t%s\n\t\tORDER BY name, id\n\t\tLIMIT $%d OFFSET $%d", participantSelect, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []participant.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

// Update implements participant.ParticipantRepository.
func (r *participantRepositoryImpl) Update(ctx context.Context, id string, req participant.UpdateParticipantRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.Team != nil {
		set("team", *req.Team)
	}
	if req.Site != nil {
		set("site", *req.Site)
	}
	if req.Hostel != nil {
		set("hostel", *req.Hostel)
	}
	if req.TravelMode != nil {
		set("travel_mode", *req.TravelMode)
	}
	if req.ArrivalDate != nil {
		set("arrival_date", *req.ArrivalDate)
	}

	if len(updates) == 0 {
		return participant.ErrNoChanges
	}

	query := fmt.Sprintf("UPDATE participants SET %s, updated_at = NOW() WHERE id = $%d", strings.Join(updates, ", "), argIdx)
	args = append(args, id)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return participant.ErrEmailExists
		}
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}
