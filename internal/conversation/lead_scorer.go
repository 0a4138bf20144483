package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LeadAnalysis is the scorer's verdict on one conversation turn.
type LeadAnalysis struct {
	ShouldCapture   bool     `json:"should_capture"`
	Confidence      float64  `json:"confidence"`
	Score           float64  `json:"score"`
	Reason          string   `json:"reason"`
	RiskFactors     []string `json:"risk_factors,omitempty"`
	PositiveSignals []string `json:"positive_signals,omitempty"`
}

// Scoring weights. The five sub-scores are each on a 0-10 scale and combine
// into the final 0-10 score.
const (
	weightIntent          = 0.30
	weightProgression     = 0.25
	weightNegativeAbsence = 0.20
	weightEngagement      = 0.15
	weightUrgency         = 0.10
)

// captureThreshold returns the minimum score at which a lead may be
// captured. First contact demands near-certainty; an established
// conversation earns a lower bar.
func captureThreshold(exchangeCount int) float64 {
	switch {
	case exchangeCount == 0:
		return 8.5
	case exchangeCount < 2:
		return 8.0
	default:
		return 6.5
	}
}

var buyingIntentKeywords = []string{
	"buy", "purchase", "sign up", "apply", "proceed", "get started",
	"how do i pay", "payment", "take it", "i want this", "i'll take",
}

var quoteIntentKeywords = []string{
	"quote", "quotation", "premium", "how much", "price", "cost",
}

var interestKeywords = []string{
	"insurance", "cover", "policy", "protect",
}

var negativeKeywords = []string{
	"not interested", "no thanks", "stop", "leave me alone", "too expensive",
	"can't afford", "cannot afford", "unsubscribe", "scam", "go away",
	"waste of time", "never",
}

var urgencyKeywords = []string{
	"today", "now", "asap", "urgent", "immediately", "this week",
	"right away", "as soon as",
}

// LeadScorer decides whether a conversation has become a sales lead. The
// heuristic model always runs; when an LLM client is present its judgment
// is blended in, and any LLM failure degrades to heuristics alone rather
// than blocking the turn.
type LeadScorer struct {
	llm    LLMClient
	logger *slog.Logger
}

// NewLeadScorer creates a scorer. llm may be nil for heuristic-only mode.
func NewLeadScorer(llm LLMClient, logger *slog.Logger) *LeadScorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadScorer{llm: llm, logger: logger}
}

// Analyze scores the conversation after the current turn. It never
// returns an error and never panics out: any internal failure yields the
// fail-closed verdict (no capture, low confidence).
func (s *LeadScorer) Analyze(ctx context.Context, userMessage string, history []ChatMessage, exchangeCount int) (analysis LeadAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("lead scorer panicked, failing closed", "panic", fmt.Sprint(r))
			analysis = LeadAnalysis{
				ShouldCapture: false,
				Score:         0,
				Confidence:    0.1,
				Reason:        "scoring unavailable",
			}
		}
	}()

	heuristic := s.heuristicAnalysis(userMessage, history)

	if s.llm != nil {
		llmAnalysis, err := s.llmAnalysis(ctx, userMessage, history)
		if err != nil {
			s.logger.Warn("lead scorer llm analysis failed, using heuristics", "error", err)
			heuristic.Confidence = 0.4
		} else {
			heuristic = blendAnalyses(heuristic, llmAnalysis)
			heuristic.Confidence = 0.8
		}
	} else {
		heuristic.Confidence = 0.55
	}

	threshold := captureThreshold(exchangeCount)
	heuristic.ShouldCapture = heuristic.ShouldCapture && heuristic.Score >= threshold
	heuristic.Reason = appendThresholdContext(heuristic.Reason, heuristic.Score, threshold)
	return heuristic
}

// Revalidate re-applies the capture threshold to an externally supplied
// analysis. Forced verdicts still have to clear the bar.
func (s *LeadScorer) Revalidate(analysis LeadAnalysis, exchangeCount int) LeadAnalysis {
	threshold := captureThreshold(exchangeCount)
	analysis.ShouldCapture = analysis.ShouldCapture && analysis.Score >= threshold
	analysis.Reason = appendThresholdContext(analysis.Reason, analysis.Score, threshold)
	return analysis
}

// appendThresholdContext makes every verdict auditable: the reason always
// names the score and the threshold it was compared against.
func appendThresholdContext(reason string, score, threshold float64) string {
	return fmt.Sprintf("%s (score %.1f vs threshold %.1f)", reason, score, threshold)
}

func (s *LeadScorer) heuristicAnalysis(userMessage string, history []ChatMessage) LeadAnalysis {
	lower := strings.ToLower(userMessage)
	userMessages := collectUserMessages(history)
	allUserText := strings.ToLower(strings.Join(append(userMessages, userMessage), " "))

	var positives, risks []string

	intent := scoreIntent(lower, allUserText, &positives)
	progression := scoreProgression(len(userMessages), allUserText, &positives)
	negAbsence := scoreNegativeAbsence(allUserText, &risks)
	engagement := scoreEngagement(lower, len(userMessages))
	urgency := scoreUrgency(allUserText, &positives)

	score := intent*weightIntent +
		progression*weightProgression +
		negAbsence*weightNegativeAbsence +
		engagement*weightEngagement +
		urgency*weightUrgency

	reason := "low buying intent"
	if score >= 6.5 {
		reason = "strong buying signals in conversation"
	} else if score >= 4 {
		reason = "moderate interest, not yet qualified"
	}

	return LeadAnalysis{
		ShouldCapture:   score >= 6.5,
		Score:           score,
		Reason:          reason,
		RiskFactors:     risks,
		PositiveSignals: positives,
	}
}

func scoreIntent(current, allText string, positives *[]string) float64 {
	switch {
	case containsAny(current, buyingIntentKeywords):
		*positives = append(*positives, "explicit buying intent")
		return 10
	case containsAny(current, quoteIntentKeywords):
		*positives = append(*positives, "asked for pricing")
		return 8
	case containsAny(allText, buyingIntentKeywords):
		return 7
	case containsAny(allText, quoteIntentKeywords):
		return 6
	case containsAny(allText, interestKeywords):
		return 4
	default:
		return 1
	}
}

func scoreProgression(userTurns int, allText string, positives *[]string) float64 {
	score := float64(userTurns) * 1.5
	if score > 7 {
		score = 7
	}
	// Sharing personal details is the strongest progression signal.
	if strings.Contains(allText, "my") && (strings.Contains(allText, "car") ||
		strings.Contains(allText, "family") || strings.Contains(allText, "business") ||
		strings.Contains(allText, "health")) {
		score += 3
		*positives = append(*positives, "shared personal details")
	}
	if score > 10 {
		score = 10
	}
	return score
}

func scoreNegativeAbsence(allText string, risks *[]string) float64 {
	score := 10.0
	for _, kw := range negativeKeywords {
		if strings.Contains(allText, kw) {
			score -= 4
			*risks = append(*risks, "negative signal: "+kw)
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

func scoreEngagement(current string, userTurns int) float64 {
	score := 2.0
	words := len(strings.Fields(current))
	if words >= 5 {
		score += 3
	}
	if words >= 12 {
		score += 2
	}
	if strings.Contains(current, "?") {
		score += 1
	}
	score += float64(userTurns)
	if score > 10 {
		score = 10
	}
	return score
}

func scoreUrgency(allText string, positives *[]string) float64 {
	if containsAny(allText, urgencyKeywords) {
		*positives = append(*positives, "urgency expressed")
		return 9
	}
	return 2
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func collectUserMessages(history []ChatMessage) []string {
	var out []string
	for _, msg := range history {
		if msg.Role == ChatRoleUser {
			out = append(out, msg.Content)
		}
	}
	return out
}

const leadScorerPrompt = `You evaluate whether an insurance sales conversation has become a qualified lead.
Score buying intent on a 0-10 scale. Respond with JSON only:
{"should_capture": bool, "score": number, "reason": string, "risk_factors": [string], "positive_signals": [string]}`

func (s *LeadScorer) llmAnalysis(ctx context.Context, userMessage string, history []ChatMessage) (LeadAnalysis, error) {
	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: userMessage})

	var analysis LeadAnalysis
	err := completeStructured(ctx, s.llm, LLMRequest{
		System:    []string{leadScorerPrompt},
		Messages:  messages,
		MaxTokens: 400,
	}, &analysis)
	if err != nil {
		return LeadAnalysis{}, err
	}
	if analysis.Score < 0 {
		analysis.Score = 0
	}
	if analysis.Score > 10 {
		analysis.Score = 10
	}
	return analysis, nil
}

// blendAnalyses averages the heuristic and LLM scores and captures when
// either side says so; the threshold re-check in Analyze is what keeps an
// eager model opinion from qualifying a weak conversation.
func blendAnalyses(heuristic, llm LeadAnalysis) LeadAnalysis {
	out := heuristic
	out.Score = (heuristic.Score + llm.Score) / 2
	out.ShouldCapture = heuristic.ShouldCapture || llm.ShouldCapture
	if llm.Reason != "" {
		out.Reason = llm.Reason
	}
	out.RiskFactors = append(out.RiskFactors, llm.RiskFactors...)
	out.PositiveSignals = append(out.PositiveSignals, llm.PositiveSignals...)
	return out
}
