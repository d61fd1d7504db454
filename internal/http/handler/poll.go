package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"needsnet.app/api/common/logger"
	"needsnet.app/api/internal/http/dto"
	"needsnet.app/api/internal/service"
)

type PollHandler struct {
	polls service.PollService
	clock clockwork.Clock
}

func NewPollHandler(polls service.PollService, clock clockwork.Clock) *PollHandler {
	return &PollHandler{polls: polls, clock: clock}
}

func (h *PollHandler) Create(c *gin.Context) {
	var uri dto.NeedURI
	if !bindURI(c, &uri) {
		return
	}
	var req dto.CreatePollRequest
	if !bindJSON(c, &req) {
		return
	}
	p := principal(c)
	if p == nil {
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{NeedID: logger.Ptr(uri.NeedID)})
	poll, err := h.polls.Create(ctx, service.CreatePollInput{
		NeedID:    uri.NeedID,
		Question:  req.Question,
		Options:   req.Options,
		ExpiresAt: req.ExpiresAt,
		CreatedBy: p.ID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "poll created", dto.ToPollResponse(poll, p.ID, h.clock.Now()))
}

func (h *PollHandler) ListByNeed(c *gin.Context) {
	var uri dto.NeedURI
	if !bindURI(c, &uri) {
		return
	}

	polls, err := h.polls.ListByNeed(c.Request.Context(), uri.NeedID)
	if err != nil {
		fail(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToPollResponses(polls, viewerID(c), h.clock.Now()))
}

func (h *PollHandler) Get(c *gin.Context) {
	var uri dto.PollURI
	if !bindURI(c, &uri) {
		return
	}

	poll, err := h.polls.Get(c.Request.Context(), uri.PollID)
	if err != nil {
		fail(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToPollResponse(poll, viewerID(c), h.clock.Now()))
}

func (h *PollHandler) Vote(c *gin.Context) {
	var uri dto.VoteURI
	if !bindURI(c, &uri) {
		return
	}
	p := principal(c)
	if p == nil {
		return
	}

	poll, err := h.polls.Vote(c.Request.Context(), uri.PollID, uri.OptionID, p.ID)
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "vote recorded", dto.ToPollResponse(poll, p.ID, h.clock.Now()))
}
