package dto

import (
	"time"

	"carenet/internal/domain/careteam"

	"github.com/google/uuid"
)

type CareTeamRequestResponse struct {
	ID          uuid.UUID      `json:"id"`
	RequesterID uuid.UUID      `json:"requester_id"`
	ReceiverID  uuid.UUID      `json:"receiver_id"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Requester   ProfileSummary `json:"requester"`
	Receiver    ProfileSummary `json:"receiver"`
}

func NewCareTeamRequestResponse(r careteam.Request) CareTeamRequestResponse {
	return CareTeamRequestResponse{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		ReceiverID:  r.ReceiverID,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Requester:   NewProfileSummary(r.Requester),
		Receiver:    NewProfileSummary(r.Receiver),
	}
}

func newCareTeamRequestResponses(in []careteam.Request) []CareTeamRequestResponse {
	out := make([]CareTeamRequestResponse, 0, len(in))
	for _, r := range in {
		out = append(out, NewCareTeamRequestResponse(r))
	}
	return out
}

// ConnectionResponse is an accepted request seen from one side.
type ConnectionResponse struct {
	RequestID uuid.UUID      `json:"request_id"`
	User      ProfileSummary `json:"user"`
	Since     time.Time      `json:"since"`
}

type CareTeamOverviewResponse struct {
	Connections []ConnectionResponse      `json:"connections"`
	Received    []CareTeamRequestResponse `json:"received"`
	Sent        []CareTeamRequestResponse `json:"sent"`
}

func NewCareTeamOverviewResponse(viewerID uuid.UUID, o careteam.Overview) CareTeamOverviewResponse {
	conns := make([]ConnectionResponse, 0, len(o.Connections))
	for _, r := range o.Connections {
		conns = append(conns, ConnectionResponse{
			RequestID: r.ID,
			User:      NewProfileSummary(r.Counterpart(viewerID)),
			Since:     r.UpdatedAt,
		})
	}
	return CareTeamOverviewResponse{
		Connections: conns,
		Received:    newCareTeamRequestResponses(o.Received),
		Sent:        newCareTeamRequestResponses(o.Sent),
	}
}

type CareTeamStatusResponse struct {
	Relation string                   `json:"relation"`
	Request  *CareTeamRequestResponse `json:"request"`
}
