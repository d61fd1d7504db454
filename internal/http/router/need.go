package router

import (
	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/handler"
)

type NeedHandlers struct {
	Needs    *handler.NeedHandler
	Polls    *handler.PollHandler
	Messages *handler.MessageHandler
}

// NeedRouter sets up the social feed: needs and the polls and supporter
// messages hanging off them.
func NeedRouter(rg *gin.RouterGroup, h NeedHandlers, guards Guards) {
	needs := rg.Group("/needs")
	{
		needs.GET("", h.Needs.List)
		needs.GET("/:needId", h.Needs.Get)
		needs.POST("", guards.Authenticated, h.Needs.Create)
		needs.PATCH("/:needId/status", append(guards.Admin, h.Needs.UpdateStatus)...)

		needs.GET("/:needId/polls", guards.Optional, h.Polls.ListByNeed)
		needs.POST("/:needId/polls", guards.Authenticated, h.Polls.Create)

		needs.GET("/:needId/messages", guards.Optional, h.Messages.ListByNeed)
		needs.POST("/:needId/messages", guards.Authenticated, h.Messages.Create)
	}

	rg.GET("/polls/:pollId", guards.Optional, h.Polls.Get)
	rg.POST("/polls/:pollId/options/:optionId/vote", guards.Authenticated, h.Polls.Vote)

	rg.PATCH("/messages/:messageId/like", guards.Authenticated, h.Messages.ToggleLike)
}
