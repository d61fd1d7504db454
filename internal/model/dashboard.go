package model

import "time"

type DashboardStats struct {
	Needs    NeedCounts `json:"needs"`
	Polls    int        `json:"polls"`
	Votes    int        `json:"votes"`
	Messages int        `json:"messages"`
	Likes    int        `json:"likes"`
	Articles int        `json:"articles"`
}

type NeedCounts struct {
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

// MaxTrackedMessageIDs caps WordCloud.MessageIDs. Only the most recently
// counted ids are kept; a redelivery older than that window is counted again.
const MaxTrackedMessageIDs = 1000

// WordCloud holds the term frequencies of a need's supporter messages.
type WordCloud struct {
	NeedID string         `json:"needId"`
	Terms  map[string]int `json:"-"`
	// MessageIDs are the recently counted messages, oldest first.
	MessageIDs      []string  `json:"-"`
	MessagesCounted int       `json:"messagesCounted"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Rev string `json:"-"`
}

func (w *WordCloud) Counted(messageID string) bool {
	for _, id := range w.MessageIDs {
		if id == messageID {
			return true
		}
	}
	return false
}

// MarkCounted records messageID, dropping the oldest ids beyond
// MaxTrackedMessageIDs.
func (w *WordCloud) MarkCounted(messageID string) {
	w.MessagesCounted++
	w.MessageIDs = append(w.MessageIDs, messageID)
	if over := len(w.MessageIDs) - MaxTrackedMessageIDs; over > 0 {
		w.MessageIDs = append([]string(nil), w.MessageIDs[over:]...)
	}
}

type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}
