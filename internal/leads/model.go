package leads

import (
	"strings"
	"time"
)

// Urgency ranks how quickly the sales team should follow up.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Status tracks a lead through the sales pipeline.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// Lead is a qualified prospect handed off from a conversation.
type Lead struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Source    string    `json:"source"`
	Interests []string  `json:"interests,omitempty"`
	Urgency   Urgency   `json:"urgency"`
	Score     int       `json:"score"` // 0-100
	Status    Status    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	NextSteps []string  `json:"next_steps,omitempty"` // ordered actions for the sales team
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CaptureRequest is the payload for recording a new lead.
type CaptureRequest struct {
	UserID    string   `json:"user_id"`
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Source    string   `json:"source"`
	Interests []string `json:"interests,omitempty"`
	Urgency   Urgency  `json:"urgency"`
	Score     int      `json:"score"`
	Reason    string   `json:"reason,omitempty"`
	NextSteps []string `json:"next_steps,omitempty"`
}

// Validate checks the capture request.
func (r *CaptureRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUserID
	}
	if r.Score < 0 || r.Score > 100 {
		return ErrInvalidScore
	}
	return nil
}
