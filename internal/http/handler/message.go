package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/dto"
	"needsnet.app/api/internal/service"
)

type MessageHandler struct {
	messages service.MessageService
}

func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Create(c *gin.Context) {
	var uri dto.NeedURI
	if !bindURI(c, &uri) {
		return
	}
	var req dto.CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	p := principal(c)
	if p == nil {
		return
	}

	author := p.User()
	msg, err := h.messages.Create(c.Request.Context(), service.CreateMessageInput{
		NeedID:   uri.NeedID,
		ParentID: req.ParentMessage,
		Content:  req.Content,
		Author:   author,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "message posted", dto.ToMessageResponse(msg, &author, p.ID))
}

func (h *MessageHandler) ListByNeed(c *gin.Context) {
	var uri dto.NeedURI
	if !bindURI(c, &uri) {
		return
	}

	threads, err := h.messages.ListByNeed(c.Request.Context(), uri.NeedID)
	if err != nil {
		fail(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToMessageThreads(threads, viewerID(c)))
}

func (h *MessageHandler) ToggleLike(c *gin.Context) {
	var uri dto.MessageURI
	if !bindURI(c, &uri) {
		return
	}
	p := principal(c)
	if p == nil {
		return
	}

	res, err := h.messages.ToggleLike(c.Request.Context(), uri.MessageID, p.ID)
	if err != nil {
		fail(c, err)
		return
	}

	message := "message unliked"
	if res.Liked {
		message = "message liked"
	}
	respondMessage(c, http.StatusOK, message, res)
}
