package careteam

import (
	"time"

	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Request is directed from requester to receiver until accepted, then read as a symmetric connection.
type Request struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	ReceiverID  uuid.UUID
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Requester   profile.Summary
	Receiver    profile.Summary
}

// Counterpart returns the other side of the request as seen by userID.
func (r Request) Counterpart(userID uuid.UUID) profile.Summary {
	if r.RequesterID == userID {
		return r.Receiver
	}
	return r.Requester
}

// Relation is the state between the viewer and another user.
type Relation string

const (
	RelationNone            Relation = "none"
	RelationPendingSent     Relation = "pending_sent"
	RelationPendingReceived Relation = "pending_received"
	RelationConnected       Relation = "connected"
	RelationSelf            Relation = "self"
)

func RelationFor(viewerID uuid.UUID, r *Request) Relation {
	if r == nil {
		return RelationNone
	}
	if r.Status == StatusAccepted {
		return RelationConnected
	}
	if r.RequesterID == viewerID {
		return RelationPendingSent
	}
	return RelationPendingReceived
}

type Overview struct {
	Connections []Request
	Received    []Request
	Sent        []Request
}
