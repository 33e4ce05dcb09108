package model

import "time"

// InteractionType labels a logged touchpoint with an investor.
type InteractionType string

const (
	InteractionColdEmail    InteractionType = "cold_email"
	InteractionTwitterDM    InteractionType = "twitter_dm"
	InteractionIntroRequest InteractionType = "intro_request"
	InteractionFollowUp     InteractionType = "follow_up"
	InteractionMeeting      InteractionType = "meeting"
	InteractionNote         InteractionType = "note"
)

// Interaction is a single outreach artifact or touchpoint tied to an
// investor. Generated outreach is recorded here before it is ever sent.
type Interaction struct {
	ID          string          `json:"id"`
	InvestorID  string          `json:"investor_id"`
	Type        InteractionType `json:"type"`
	Channel     string          `json:"channel"`
	Subject     string          `json:"subject,omitempty"`
	Content     string          `json:"content"`
	SentAt      *time.Time      `json:"sent_at,omitempty"`
	Response    string          `json:"response,omitempty"`
	RespondedAt *time.Time      `json:"responded_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OutreachStats summarizes outreach volume and response rate.
type OutreachStats struct {
	Total        int `json:"total"`
	Sent         int `json:"sent"`
	Responded    int `json:"responded"`
	ResponseRate int `json:"response_rate"` // percent, 0-100
}
