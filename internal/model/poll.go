package model

import "time"

type Poll struct {
	ID        string       `json:"id"`
	NeedID    string       `json:"needId"`
	Question  string       `json:"question"`
	Options   []PollOption `json:"options"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	CreatedBy string       `json:"createdBy"`
	CreatedAt time.Time    `json:"createdAt"`

	// Rev is the store revision the poll was read at.
	Rev string `json:"-"`
}

type PollOption struct {
	ID     string   `json:"id"`
	Text   string   `json:"text"`
	Voters []string `json:"-"`
}

func (o *PollOption) VotesCount() int {
	return len(o.Voters)
}

// IsExpired reports whether voting has closed at now. A poll without an
// expiry never expires; one expiring exactly at now is expired.
func (p *Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

// VotedOptionID returns the option voter chose, or "" if they have not voted.
func (p *Poll) VotedOptionID(voter string) string {
	for _, opt := range p.Options {
		for _, v := range opt.Voters {
			if v == voter {
				return opt.ID
			}
		}
	}
	return ""
}

func (p *Poll) HasVoted(voter string) bool {
	return p.VotedOptionID(voter) != ""
}

func (p *Poll) Option(id string) *PollOption {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i]
		}
	}
	return nil
}

func (p *Poll) TotalVotes() int {
	total := 0
	for _, opt := range p.Options {
		total += opt.VotesCount()
	}
	return total
}
