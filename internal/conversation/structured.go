package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	errNoLLMClient   = errors.New("conversation: no LLM client configured")
	errNoJSONPayload = errors.New("conversation: model reply contained no JSON object")
)

// completeStructured invokes the model and decodes the first JSON object in
// its reply into out. On any failure out is left untouched, so callers
// initialize it with their named defaults and those survive malformed model
// output. This is the single place model-JSON parsing happens; no branch of
// the pipeline may crash on unparseable completions.
func completeStructured(ctx context.Context, client LLMClient, req LLMRequest, out any) error {
	if client == nil {
		return errNoLLMClient
	}

	resp, err := client.Complete(ctx, req)
	if err != nil {
		return err
	}

	payload := extractJSONObject(resp.Text)
	if payload == "" {
		return errNoJSONPayload
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("conversation: model reply JSON decode: %w", err)
	}
	return nil
}

// extractJSONObject pulls the outermost {...} from a model reply, tolerating
// prose or code fences around it.
func extractJSONObject(content string) string {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
