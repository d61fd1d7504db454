package model

import "time"

type ActivityType string

const (
	ActivityNeedCreated    ActivityType = "need.created"
	ActivityPollCreated    ActivityType = "poll.created"
	ActivityPollVoted      ActivityType = "poll.voted"
	ActivityMessageCreated ActivityType = "message.created"
	ActivityMessageLiked   ActivityType = "message.liked"
	ActivityMessageUnliked ActivityType = "message.unliked"
)

// ActivityEvent records something a participant did. Events are published
// after the write they describe has been persisted.
type ActivityEvent struct {
	ID         int64
	Type       ActivityType
	ActorID    string
	NeedID     string
	PollID     string
	MessageID  string
	OptionID   string
	TraceID    string
	OccurredAt time.Time
}
