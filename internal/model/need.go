package model

import "time"

type NeedStatus string

const (
	NeedStatusOpen   NeedStatus = "open"
	NeedStatusClosed NeedStatus = "closed"
)

type Need struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category,omitempty"`
	Status      NeedStatus `json:"status"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}
