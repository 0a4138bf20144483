package conversation

import (
	"context"
	"errors"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"prose around", "Sure, here you go: {\"a\":1} hope that helps", `{"a":1}`},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"no object", "no json here", ""},
		{"unbalanced", "}{", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.content); got != tt.want {
				t.Errorf("extractJSONObject = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteStructuredDecodes(t *testing.T) {
	client := scorerLLM{text: `The verdict: {"should_capture": true, "score": 8.5}`}

	var out LeadAnalysis
	if err := completeStructured(context.Background(), client, LLMRequest{}, &out); err != nil {
		t.Fatalf("completeStructured: %v", err)
	}
	if !out.ShouldCapture || out.Score != 8.5 {
		t.Errorf("decoded = %+v", out)
	}
}

func TestCompleteStructuredLeavesDefaultsOnFailure(t *testing.T) {
	out := LeadAnalysis{Score: 3.3, Reason: "default"}

	err := completeStructured(context.Background(), scorerLLM{text: "no json at all"}, LLMRequest{}, &out)
	if !errors.Is(err, errNoJSONPayload) {
		t.Fatalf("err = %v, want errNoJSONPayload", err)
	}
	if out.Score != 3.3 || out.Reason != "default" {
		t.Errorf("defaults clobbered: %+v", out)
	}
}

func TestCompleteStructuredNilClient(t *testing.T) {
	var out LeadAnalysis
	err := completeStructured(context.Background(), nil, LLMRequest{}, &out)
	if !errors.Is(err, errNoLLMClient) {
		t.Errorf("err = %v, want errNoLLMClient", err)
	}
}
