package leads

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/asafo-labs/insurance-ai-platform/internal/conversation"
	"github.com/asafo-labs/insurance-ai-platform/pkg/logging"
)

type recordingNotifier struct {
	mu    sync.Mutex
	leads []*Lead
	err   error
}

func (n *recordingNotifier) NotifyLeadCaptured(ctx context.Context, lead *Lead) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, lead)
	return n.err
}

func quietLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func TestCaptureFromConversation(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, quietLogger())

	err := svc.CaptureFromConversation(context.Background(), "u1",
		conversation.LeadAnalysis{Score: 8.7, Reason: "ready to buy"},
		conversation.Profile{Interests: []string{"auto"}, Location: "accra"},
	)
	if err != nil {
		t.Fatalf("CaptureFromConversation: %v", err)
	}

	if len(notifier.leads) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.leads))
	}
	lead := notifier.leads[0]
	if lead.Score != 87 {
		t.Errorf("Score = %d, want 87 (0-10 scaled to 0-100)", lead.Score)
	}
	if lead.Urgency != UrgencyHigh {
		t.Errorf("Urgency = %q, want high", lead.Urgency)
	}
	if len(lead.Interests) != 1 || lead.Interests[0] != "auto" {
		t.Errorf("Interests = %v", lead.Interests)
	}
	if len(lead.NextSteps) < 2 || lead.NextSteps[0] != "Call within 4 business hours" {
		t.Errorf("NextSteps = %v, want the high-urgency action list starting with the call", lead.NextSteps)
	}
}

func TestCaptureFromConversationClampsScore(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, quietLogger())

	if err := svc.CaptureFromConversation(context.Background(), "u1",
		conversation.LeadAnalysis{Score: 14.2}, conversation.Profile{}); err != nil {
		t.Fatalf("CaptureFromConversation: %v", err)
	}
	if notifier.leads[0].Score != 100 {
		t.Errorf("Score = %d, want clamped 100", notifier.leads[0].Score)
	}
}

func TestCaptureFromConversationNotifierFailureIsSwallowed(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := NewService(repo, notifier, quietLogger())

	err := svc.CaptureFromConversation(context.Background(), "u1",
		conversation.LeadAnalysis{Score: 7}, conversation.Profile{})
	if err != nil {
		t.Errorf("notification failure must not fail the capture: %v", err)
	}
}

func TestUrgencyForScore(t *testing.T) {
	tests := []struct {
		score int
		want  Urgency
	}{
		{90, UrgencyHigh},
		{85, UrgencyHigh},
		{84, UrgencyMedium},
		{65, UrgencyMedium},
		{64, UrgencyLow},
		{0, UrgencyLow},
	}
	for _, tt := range tests {
		if got := urgencyForScore(tt.score); got != tt.want {
			t.Errorf("urgencyForScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
