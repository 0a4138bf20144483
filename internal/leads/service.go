package leads

import (
	"context"
	"fmt"
	"math"

	"github.com/asafo-labs/insurance-ai-platform/internal/conversation"
	"github.com/asafo-labs/insurance-ai-platform/pkg/logging"
)

// Notifier alerts the sales team about a captured lead.
type Notifier interface {
	NotifyLeadCaptured(ctx context.Context, lead *Lead) error
}

// Service records qualified conversations as sales leads.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *logging.Logger
}

// NewService wires the lead pipeline. notifier may be nil.
func NewService(repo Repository, notifier Notifier, logger *logging.Logger) *Service {
	if repo == nil {
		panic("leads: repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

var _ conversation.LeadCapturer = (*Service)(nil)

// CaptureFromConversation persists a qualified conversation as a lead and
// alerts sales. Notification failures are logged, not propagated; the lead
// is already safely stored by then.
func (s *Service) CaptureFromConversation(ctx context.Context, userID string, analysis conversation.LeadAnalysis, profile conversation.Profile) error {
	score := clampScore(int(math.Round(analysis.Score * 10)))
	urgency := urgencyForScore(score)

	req := &CaptureRequest{
		UserID:    userID,
		Source:    "conversation",
		Interests: profile.Interests,
		Urgency:   urgency,
		Score:     score,
		Reason:    analysis.Reason,
		NextSteps: nextStepsFor(urgency),
	}
	if profile.Location != "" {
		req.Reason = fmt.Sprintf("%s (location: %s)", req.Reason, profile.Location)
	}

	lead, err := s.repo.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("leads: capture failed: %w", err)
	}
	s.logger.Info("lead captured", "lead_id", lead.ID, "user_id", userID, "score", score, "urgency", urgency)

	if s.notifier != nil {
		if err := s.notifier.NotifyLeadCaptured(ctx, lead); err != nil {
			s.logger.Error("lead notification failed", "lead_id", lead.ID, "error", err)
		}
	}
	return nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func urgencyForScore(score int) Urgency {
	switch {
	case score >= 85:
		return UrgencyHigh
	case score >= 65:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

func nextStepsFor(urgency Urgency) []string {
	switch urgency {
	case UrgencyHigh:
		return []string{"Call within 4 business hours", "Prepare a tailored quote before the call"}
	case UrgencyMedium:
		return []string{"Follow up within 1 business day", "Send product details by email"}
	default:
		return []string{"Add to nurture sequence"}
	}
}
