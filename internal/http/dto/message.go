package dto

import (
	"time"

	"needsnet.app/api/internal/model"
)

type CreateMessageRequest struct {
	Content       string `json:"content" binding:"required,notblank,max=2000" jsonschema:"minLength=1,maxLength=2000"`
	ParentMessage string `json:"parentMessage,omitempty" binding:"omitempty,objectid" jsonschema:"pattern=^[0-9a-f]{24}$"`
}

type MessageURI struct {
	MessageID string `uri:"messageId" binding:"required,objectid"`
}

type MessageResponse struct {
	ID            string    `json:"id"`
	NeedID        string    `json:"needId"`
	ParentMessage string    `json:"parentMessage,omitempty"`
	Content       string    `json:"content"`
	Author        *Author   `json:"author"`
	LikesCount    int       `json:"likesCount"`
	LikedByMe     bool      `json:"likedByMe"`
	CreatedAt     time.Time `json:"createdAt"`
}

type MessageThreadResponse struct {
	MessageResponse
	Replies []MessageResponse `json:"replies"`
}

func ToMessageResponse(m *model.SupporterMessage, author *model.User, viewer string) MessageResponse {
	resp := MessageResponse{
		ID:            m.ID,
		NeedID:        m.NeedID,
		ParentMessage: m.ParentID,
		Content:       m.Content,
		LikesCount:    len(m.Likes),
		LikedByMe:     viewer != "" && m.LikedBy(viewer),
		CreatedAt:     m.CreatedAt,
	}
	if author != nil {
		resp.Author = &Author{ID: author.ID, Name: author.Name}
	}
	return resp
}

func ToMessageThreads(threads []model.MessageThread, viewer string) []MessageThreadResponse {
	out := make([]MessageThreadResponse, 0, len(threads))
	for i := range threads {
		t := &threads[i]
		replies := make([]MessageResponse, 0, len(t.Replies))
		for j := range t.Replies {
			replies = append(replies, ToMessageResponse(&t.Replies[j].Message, t.Replies[j].Author, viewer))
		}
		out = append(out, MessageThreadResponse{
			MessageResponse: ToMessageResponse(&t.Message, t.Author, viewer),
			Replies:         replies,
		})
	}
	return out
}
