package model

import "time"

type SupporterMessage struct {
	ID        string    `json:"id"`
	NeedID    string    `json:"needId"`
	AuthorID  string    `json:"authorId"`
	ParentID  string    `json:"parentMessage,omitempty"`
	Content   string    `json:"content"`
	Likes     []string  `json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	Rev string `json:"-"`
}

func (m *SupporterMessage) IsReply() bool {
	return m.ParentID != ""
}

func (m *SupporterMessage) LikedBy(actor string) bool {
	for _, id := range m.Likes {
		if id == actor {
			return true
		}
	}
	return false
}

// ToggleLike adds actor to the like set if absent and removes it otherwise.
// It returns whether actor likes the message afterwards.
func (m *SupporterMessage) ToggleLike(actor string) bool {
	for i, id := range m.Likes {
		if id == actor {
			m.Likes = append(m.Likes[:i:i], m.Likes[i+1:]...)
			return false
		}
	}
	m.Likes = append(m.Likes, actor)
	return true
}

// MessageThread is a top-level message with its replies and populated authors.
type MessageThread struct {
	Message SupporterMessage
	Author  *User
	Replies []MessageReply
}

type MessageReply struct {
	Message SupporterMessage
	Author  *User
}
