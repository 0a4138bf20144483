package conversation

import (
	"context"

	"github.com/asafo-labs/insurance-ai-platform/internal/insurance"
)

// Service processes one conversation turn. Implementations never let an
// error escape: every request produces a sendable Response.
type Service interface {
	ProcessMessage(ctx context.Context, req MessageRequest) Response
}

// ResponseKind classifies how a turn was answered.
type ResponseKind string

const (
	KindQuote         ResponseKind = "quote"
	KindClarification ResponseKind = "clarification"
	KindFollowUp      ResponseKind = "followup"
	KindGeneric       ResponseKind = "generic"
	KindError         ResponseKind = "error"
)

// MessageRequest is one inbound user turn.
type MessageRequest struct {
	UserID  string            `json:"user_id"`
	Text    string            `json:"text"`
	Context map[string]string `json:"context,omitempty"`
}

// Response is the engine's answer for one turn. Message is always safe to
// send to the user; errors inside the engine surface as a friendly message
// with Kind set to KindError, never as a returned error.
type Response struct {
	Message string           `json:"message"`
	Kind    ResponseKind     `json:"kind"`
	Product insurance.Type   `json:"product,omitempty"`
	Quote   *insurance.Quote `json:"quote,omitempty"`
	Missing []string         `json:"missing,omitempty"`
	Lead    *LeadAnalysis    `json:"lead,omitempty"`

	// forcedAnalysis overrides the scorer for turns whose intent alone
	// qualifies the lead (an explicit application). The threshold is still
	// re-applied before capture.
	forcedAnalysis *LeadAnalysis
}
