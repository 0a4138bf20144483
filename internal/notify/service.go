package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/asafo-labs/insurance-ai-platform/internal/leads"
	"github.com/asafo-labs/insurance-ai-platform/pkg/logging"
)

// Service alerts the sales team when the assistant qualifies a lead.
type Service struct {
	email       EmailSender
	salesEmails []string
	logger      *logging.Logger
}

// NewService creates a notification service. With no sender or no sales
// addresses it degrades to logging only.
func NewService(email EmailSender, salesEmails []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:       email,
		salesEmails: salesEmails,
		logger:      logger,
	}
}

var _ leads.Notifier = (*Service)(nil)

// NotifyLeadCaptured emails the sales team about a freshly captured lead.
// Partial delivery failures are reported but every address is attempted.
func (s *Service) NotifyLeadCaptured(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil || len(s.salesEmails) == 0 {
		s.logger.Debug("notify: email not configured, skipping lead alert", "lead_id", lead.ID)
		return nil
	}

	subject := fmt.Sprintf("New %s-urgency insurance lead (score %d)", lead.Urgency, lead.Score)
	body := formatLeadAlert(lead)

	var failed []string
	for _, to := range s.salesEmails {
		msg := EmailMessage{
			To:      to,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: lead alert delivery failed", "to", to, "lead_id", lead.ID, "error", err)
			failed = append(failed, to)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("notify: lead alert failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func formatLeadAlert(lead *leads.Lead) string {
	var b strings.Builder
	b.WriteString("The assistant qualified a new sales lead.\n\n")
	fmt.Fprintf(&b, "Lead ID:    %s\n", lead.ID)
	fmt.Fprintf(&b, "Customer:   %s\n", lead.UserID)
	if len(lead.Interests) > 0 {
		fmt.Fprintf(&b, "Interested: %s insurance\n", strings.Join(lead.Interests, ", "))
	}
	fmt.Fprintf(&b, "Score:      %d/100\n", lead.Score)
	fmt.Fprintf(&b, "Urgency:    %s\n", lead.Urgency)
	if lead.Reason != "" {
		fmt.Fprintf(&b, "Why:        %s\n", lead.Reason)
	}
	for i, step := range lead.NextSteps {
		if i == 0 {
			fmt.Fprintf(&b, "Next steps: %d. %s\n", i+1, step)
		} else {
			fmt.Fprintf(&b, "            %d. %s\n", i+1, step)
		}
	}
	return b.String()
}
