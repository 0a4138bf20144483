package conversation

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/asafo-labs/insurance-ai-platform/pkg/logging"
)

type echoService struct{}

func (echoService) ProcessMessage(ctx context.Context, req MessageRequest) Response {
	return Response{Message: "echo: " + req.Text, Kind: KindGeneric}
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func TestOrchestratorRoundTrip(t *testing.T) {
	o := NewOrchestrator(echoService{}, NewMemoryQueue(8), testLogger(), WithWorkerCount(1))
	defer o.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := o.ProcessMessage(ctx, MessageRequest{UserID: "u1", Text: "hello"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Message != "echo: hello" {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.Kind != KindGeneric {
		t.Errorf("Kind = %q", resp.Kind)
	}
}

func TestOrchestratorConcurrentCallers(t *testing.T) {
	o := NewOrchestrator(echoService{}, NewMemoryQueue(32), testLogger(), WithWorkerCount(3))
	defer o.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results := make(chan string, 10)
	for i := 0; i < 10; i++ {
		go func(i int) {
			resp, err := o.ProcessMessage(ctx, MessageRequest{UserID: "u1", Text: string(rune('a' + i))})
			if err != nil {
				results <- "err"
				return
			}
			results <- resp.Message
		}(i)
	}

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		seen[<-results] = true
	}
	if seen["err"] {
		t.Fatal("at least one caller got an error")
	}
	if len(seen) != 10 {
		t.Errorf("distinct replies = %d, want 10 (each caller gets its own result)", len(seen))
	}
}

func TestOrchestratorShutdown(t *testing.T) {
	o := NewOrchestrator(echoService{}, NewMemoryQueue(8), testLogger(), WithWorkerCount(2))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := o.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestOrchestratorCallerContextCancellation(t *testing.T) {
	// No workers consume slow enough; cancel the caller immediately and make
	// sure it unblocks with the context error.
	o := NewOrchestrator(echoService{}, NewMemoryQueue(8), testLogger(), WithWorkerCount(1), WithReceiveWaitSeconds(1))
	defer o.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.ProcessMessage(ctx, MessageRequest{UserID: "u1", Text: "hello"})
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}
