package dto

import (
	"time"

	"needsnet.app/api/internal/model"
)

type CreatePollRequest struct {
	Question  string     `json:"question" binding:"required,notblank,max=500" jsonschema:"minLength=1,maxLength=500"`
	Options   []string   `json:"options" binding:"required,min=2,max=10,dive,required,notblank,max=200" jsonschema:"minItems=2,maxItems=10"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" jsonschema:"description=Must be in the future"`
}

type PollURI struct {
	PollID string `uri:"pollId" binding:"required,objectid"`
}

type VoteURI struct {
	PollID   string `uri:"pollId" binding:"required,objectid"`
	OptionID string `uri:"optionId" binding:"required,objectid"`
}

type PollOptionResponse struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	VotesCount int    `json:"votesCount"`
}

type PollResponse struct {
	ID            string               `json:"id"`
	NeedID        string               `json:"needId"`
	Question      string               `json:"question"`
	Options       []PollOptionResponse `json:"options"`
	TotalVotes    int                  `json:"totalVotes"`
	VotedOptionID string               `json:"votedOptionId,omitempty"`
	ExpiresAt     *time.Time           `json:"expiresAt,omitempty"`
	Expired       bool                 `json:"expired"`
	CreatedBy     string               `json:"createdBy"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ToPollResponse renders p for viewer, who may be "" for guests.
func ToPollResponse(p *model.Poll, viewer string, now time.Time) PollResponse {
	options := make([]PollOptionResponse, 0, len(p.Options))
	for i := range p.Options {
		options = append(options, PollOptionResponse{
			ID:         p.Options[i].ID,
			Text:       p.Options[i].Text,
			VotesCount: p.Options[i].VotesCount(),
		})
	}

	resp := PollResponse{
		ID:         p.ID,
		NeedID:     p.NeedID,
		Question:   p.Question,
		Options:    options,
		TotalVotes: p.TotalVotes(),
		ExpiresAt:  p.ExpiresAt,
		Expired:    p.IsExpired(now),
		CreatedBy:  p.CreatedBy,
		CreatedAt:  p.CreatedAt,
	}
	if viewer != "" {
		resp.VotedOptionID = p.VotedOptionID(viewer)
	}
	return resp
}

func ToPollResponses(polls []model.Poll, viewer string, now time.Time) []PollResponse {
	out := make([]PollResponse, 0, len(polls))
	for i := range polls {
		out = append(out, ToPollResponse(&polls[i], viewer, now))
	}
	return out
}
