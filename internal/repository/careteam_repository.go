package repository

import (
	"context"

	"carenet/internal/database"
	"carenet/internal/domain/careteam"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type PostgresCareTeamRepository struct {
	db database.DB
}

func NewPostgresCareTeamRepository(db database.DB) *PostgresCareTeamRepository {
	return &PostgresCareTeamRepository{db: db}
}

const careTeamSelect = `SELECT ct.id, ct.requester_id, ct.receiver_id, ct.status, ct.created_at, ct.updated_at,
	rq.id, rq.full_name, rq.headline, rq.user_type, rq.profile_photo,
	rc.id, rc.full_name, rc.headline, rc.user_type, rc.profile_photo
	FROM care_team ct
	JOIN profiles rq ON rq.id = ct.requester_id
	JOIN profiles rc ON rc.id = ct.receiver_id`

func (r *PostgresCareTeamRepository) FindBetween(ctx context.Context, a, b uuid.UUID) (careteam.Request, error) {
	return scanCareTeam(r.db.QueryRow(ctx,
		careTeamSelect+` WHERE (ct.requester_id = $1 AND ct.receiver_id = $2)
			OR (ct.requester_id = $2 AND ct.receiver_id = $1)`,
		a, b,
	))
}

func (r *PostgresCareTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (careteam.Request, error) {
	return scanCareTeam(r.db.QueryRow(ctx, careTeamSelect+` WHERE ct.id = $1`, id))
}

func (r *PostgresCareTeamRepository) Create(ctx context.Context, requesterID, receiverID uuid.UUID) (careteam.Request, error) {
	var id uuid.UUID
	row := r.db.QueryRow(ctx,
		`INSERT INTO care_team (requester_id, receiver_id, status) VALUES ($1, $2, 'pending') RETURNING id`,
		requesterID, receiverID,
	)
	if err := row.Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return careteam.Request{}, careteam.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return careteam.Request{}, profile.ErrNotFound
		}
		return careteam.Request{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresCareTeamRepository) Accept(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE care_team SET status = 'accepted', updated_at = now() WHERE id = $1 AND status = 'pending'`,
		id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return careteam.ErrNotFound
	}
	return nil
}

func (r *PostgresCareTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM care_team WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return careteam.ErrNotFound
	}
	return nil
}

func (r *PostgresCareTeamRepository) DeleteBetween(ctx context.Context, a, b uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`DELETE FROM care_team
		 WHERE (requester_id = $1 AND receiver_id = $2) OR (requester_id = $2 AND receiver_id = $1)`,
		a, b,
	)
}

func (r *PostgresCareTeamRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]careteam.Request, error) {
	rows, err := r.db.Query(ctx,
		careTeamSelect+` WHERE ct.requester_id = $1 OR ct.receiver_id = $1 ORDER BY ct.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]careteam.Request, 0)
	for rows.Next() {
		req, err := scanCareTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Suggestions lists active profiles with no care team row in either direction with userID.
func (r *PostgresCareTeamRepository) Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]profile.Summary, error) {
	limit, _ = clampPage(limit, 0, 10, 50)

	rows, err := r.db.Query(ctx,
		`SELECT p.id, p.full_name, p.headline, p.user_type, p.profile_photo
		 FROM profiles p
		 WHERE p.id <> $1
		   AND p.account_status = 'active'
		   AND NOT EXISTS (
			SELECT 1 FROM care_team ct
			WHERE (ct.requester_id = $1 AND ct.receiver_id = p.id)
			   OR (ct.requester_id = p.id AND ct.receiver_id = $1)
		   )
		 ORDER BY p.created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Summary, 0)
	for rows.Next() {
		var s profile.Summary
		if err := rows.Scan(&s.ID, &s.FullName, &s.Headline, &s.UserType, &s.ProfilePhoto); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCareTeam(row database.Row) (careteam.Request, error) {
	var (
		req    careteam.Request
		status string
	)
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.ReceiverID, &status, &req.CreatedAt, &req.UpdatedAt,
		&req.Requester.ID, &req.Requester.FullName, &req.Requester.Headline, &req.Requester.UserType, &req.Requester.ProfilePhoto,
		&req.Receiver.ID, &req.Receiver.FullName, &req.Receiver.Headline, &req.Receiver.UserType, &req.Receiver.ProfilePhoto,
	)
	if err != nil {
		if isNoRows(err) {
			return careteam.Request{}, careteam.ErrNotFound
		}
		return careteam.Request{}, err
	}
	req.Status = careteam.Status(status)
	return req, nil
}
