package usecase

import (
	"context"
	"errors"
	"log"

	"carenet/internal/domain/careteam"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type CareTeamStatus struct {
	Relation careteam.Relation
	Request  *careteam.Request
}

type CareTeamUsecase interface {
	Overview(ctx context.Context, userID uuid.UUID) (careteam.Overview, error)
	Status(ctx context.Context, viewerID, otherID uuid.UUID) (CareTeamStatus, error)
	Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]profile.Summary, error)
	SendRequest(ctx context.Context, requesterID, receiverID uuid.UUID) (careteam.Request, error)
	Accept(ctx context.Context, userID, requestID uuid.UUID) error
	DeleteRequest(ctx context.Context, userID, requestID uuid.UUID) error
	RemoveConnection(ctx context.Context, userID, otherID uuid.UUID) error
}

type CareTeam struct {
	repo     careteam.Repository
	push     PushNotifier
	runAsync background
	logger   *log.Logger
}

func NewCareTeamUsecase(repo careteam.Repository, push PushNotifier, logger *log.Logger) *CareTeam {
	return &CareTeam{repo: repo, push: push, runAsync: detached(logger), logger: logger}
}

// Overview splits the user's rows into accepted connections, requests received and requests sent.
func (u *CareTeam) Overview(ctx context.Context, userID uuid.UUID) (careteam.Overview, error) {
	rows, err := u.repo.ListForUser(ctx, userID)
	if err != nil {
		return careteam.Overview{}, ErrInternal
	}

	out := careteam.Overview{
		Connections: make([]careteam.Request, 0),
		Received:    make([]careteam.Request, 0),
		Sent:        make([]careteam.Request, 0),
	}
	for _, r := range rows {
		switch {
		case r.Status == careteam.StatusAccepted:
			out.Connections = append(out.Connections, r)
		case r.ReceiverID == userID:
			out.Received = append(out.Received, r)
		default:
			out.Sent = append(out.Sent, r)
		}
	}
	return out, nil
}

func (u *CareTeam) Status(ctx context.Context, viewerID, otherID uuid.UUID) (CareTeamStatus, error) {
	if viewerID == otherID {
		return CareTeamStatus{Relation: careteam.RelationSelf}, nil
	}

	r, err := u.repo.FindBetween(ctx, viewerID, otherID)
	if err != nil {
		if errors.Is(err, careteam.ErrNotFound) {
			return CareTeamStatus{Relation: careteam.RelationNone}, nil
		}
		return CareTeamStatus{}, ErrInternal
	}
	return CareTeamStatus{Relation: careteam.RelationFor(viewerID, &r), Request: &r}, nil
}

func (u *CareTeam) Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]profile.Summary, error) {
	items, err := u.repo.Suggestions(ctx, userID, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *CareTeam) SendRequest(ctx context.Context, requesterID, receiverID uuid.UUID) (careteam.Request, error) {
	if receiverID == uuid.Nil || requesterID == receiverID {
		return careteam.Request{}, ErrInvalidInput
	}

	if _, err := u.repo.FindBetween(ctx, requesterID, receiverID); err == nil {
		return careteam.Request{}, ErrConflict
	} else if !errors.Is(err, careteam.ErrNotFound) {
		return careteam.Request{}, ErrInternal
	}

	r, err := u.repo.Create(ctx, requesterID, receiverID)
	if err != nil {
		switch {
		case errors.Is(err, careteam.ErrAlreadyExists):
			return careteam.Request{}, ErrConflict
		case errors.Is(err, profile.ErrNotFound):
			return careteam.Request{}, ErrNotFound
		}
		return careteam.Request{}, ErrInternal
	}

	if u.logger != nil {
		u.logger.Printf("Care team request sent | request_id=%s requester_id=%s receiver_id=%s", r.ID, requesterID, receiverID)
	}
	if u.push != nil {
		n := PushNotification{
			Title: "New Care Team request",
			Body:  r.Requester.FullName + " wants to join your Care Team",
			Data:  map[string]string{"type": "care_team_request", "request_id": r.ID.String()},
		}
		u.runAsync("push_care_team_request", func(ctx context.Context) error {
			return u.push.NotifyUser(ctx, receiverID, n)
		})
	}
	return r, nil
}

// Accept is allowed only for the receiver of a pending request.
func (u *CareTeam) Accept(ctx context.Context, userID, requestID uuid.UUID) error {
	r, err := u.get(ctx, requestID)
	if err != nil {
		return err
	}
	if r.ReceiverID != userID {
		return ErrForbidden
	}
	if r.Status != careteam.StatusPending {
		return ErrConflict
	}
	if err := u.repo.Accept(ctx, requestID); err != nil {
		if errors.Is(err, careteam.ErrNotFound) {
			return ErrConflict
		}
		return ErrInternal
	}
	return nil
}

// DeleteRequest covers reject (receiver) and cancel (requester) of a pending request.
func (u *CareTeam) DeleteRequest(ctx context.Context, userID, requestID uuid.UUID) error {
	r, err := u.get(ctx, requestID)
	if err != nil {
		return err
	}
	if r.RequesterID != userID && r.ReceiverID != userID {
		return ErrForbidden
	}
	if err := u.repo.Delete(ctx, requestID); err != nil {
		if errors.Is(err, careteam.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *CareTeam) RemoveConnection(ctx context.Context, userID, otherID uuid.UUID) error {
	if userID == otherID {
		return ErrInvalidInput
	}
	n, err := u.repo.DeleteBetween(ctx, userID, otherID)
	if err != nil {
		return ErrInternal
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (u *CareTeam) get(ctx context.Context, id uuid.UUID) (careteam.Request, error) {
	r, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, careteam.ErrNotFound) {
			return careteam.Request{}, ErrNotFound
		}
		return careteam.Request{}, ErrInternal
	}
	return r, nil
}
