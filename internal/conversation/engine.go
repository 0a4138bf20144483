package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asafo-labs/insurance-ai-platform/internal/insurance"
	"github.com/asafo-labs/insurance-ai-platform/internal/observability/metrics"
	"github.com/asafo-labs/insurance-ai-platform/pkg/logging"
)

// LeadCapturer hands a qualified conversation to the sales pipeline.
type LeadCapturer interface {
	CaptureFromConversation(ctx context.Context, userID string, analysis LeadAnalysis, profile Profile) error
}

const defaultLLMTimeout = 12 * time.Second

const fallbackReply = "Sorry, I ran into a problem handling that. Could you rephrase, or ask me about auto, health, life, or business insurance?"

// clarificationMarker appears in every parameter-gathering reply so the next
// turn can be recognized as its answer.
const clarificationMarker = "I just need"

const assistantSystemPrompt = `You are a friendly insurance sales assistant for a Ghanaian insurer.
You help customers understand auto, health, life, and business insurance.
Answer briefly and conversationally. Quote premiums only when the calculation
engine provides them; never invent figures. Amounts are in Ghana cedis (GH₵).
If the customer seems ready to buy, invite them to ask for a quote or to apply.`

// EngineDeps wires the engine's collaborators. History, Profiles, Extractor,
// and Scorer are required; the rest degrade gracefully when absent.
type EngineDeps struct {
	History   HistoryStore
	Profiles  ProfileStore
	Extractor *insurance.Extractor
	Scorer    *LeadScorer
	Capturer  LeadCapturer
	Knowledge KnowledgeRetriever
	LLM       LLMClient
	Metrics   *metrics.ConversationMetrics
	Logger    *logging.Logger

	LLMTimeout time.Duration
}

// Engine drives one conversation turn end to end: detect intent, gather
// parameters, quote or answer, record history, and score the lead. Errors
// never escape ProcessMessage; every failure path still produces a reply and
// still records the turn.
type Engine struct {
	history    HistoryStore
	profiles   ProfileStore
	extractor  *insurance.Extractor
	scorer     *LeadScorer
	capturer   LeadCapturer
	knowledge  KnowledgeRetriever
	llm        LLMClient
	metrics    *metrics.ConversationMetrics
	logger     *logging.Logger
	llmTimeout time.Duration
}

func NewEngine(deps EngineDeps) *Engine {
	if deps.History == nil {
		panic("conversation: history store cannot be nil")
	}
	if deps.Profiles == nil {
		panic("conversation: profile store cannot be nil")
	}
	if deps.Extractor == nil {
		panic("conversation: extractor cannot be nil")
	}
	if deps.Scorer == nil {
		panic("conversation: lead scorer cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.LLMTimeout <= 0 {
		deps.LLMTimeout = defaultLLMTimeout
	}
	return &Engine{
		history:    deps.History,
		profiles:   deps.Profiles,
		extractor:  deps.Extractor,
		scorer:     deps.Scorer,
		capturer:   deps.Capturer,
		knowledge:  deps.Knowledge,
		llm:        deps.LLM,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		llmTimeout: deps.LLMTimeout,
	}
}

// ProcessMessage handles one user turn. It always returns a sendable
// Response; the turn is recorded to history exactly once regardless of which
// branch ran or failed.
func (e *Engine) ProcessMessage(ctx context.Context, req MessageRequest) Response {
	text := strings.TrimSpace(req.Text)
	if req.UserID == "" || text == "" {
		return Response{
			Message: "I didn't catch that. What would you like to know about insurance?",
			Kind:    KindError,
		}
	}

	history, err := e.history.History(ctx, req.UserID)
	if err != nil {
		e.logger.Error("failed to load history, continuing with empty context",
			"user_id", req.UserID, "error", err)
		history = nil
	}
	exchanges := countExchanges(history)

	// The user turn is recorded before any handler runs so that history
	// reflects arrival order even when turns overlap in the worker pool. The
	// branch handlers still see the history as it stood before this message.
	if err := e.history.Append(ctx, req.UserID,
		ChatMessage{Role: ChatRoleUser, Content: text, Timestamp: time.Now().UTC()},
	); err != nil {
		e.logger.Error("failed to record user turn", "user_id", req.UserID, "error", err)
	}

	resp := e.respond(ctx, req.UserID, text, history)

	if err := e.history.Append(ctx, req.UserID,
		ChatMessage{Role: ChatRoleAssistant, Content: resp.Message, Timestamp: time.Now().UTC()},
	); err != nil {
		e.logger.Error("failed to record assistant turn", "user_id", req.UserID, "error", err)
	}

	e.updateProfile(ctx, req.UserID, text)

	var analysis LeadAnalysis
	if resp.forcedAnalysis != nil {
		analysis = e.scorer.Revalidate(*resp.forcedAnalysis, exchanges)
	} else {
		scoreCtx, cancel := context.WithTimeout(ctx, e.llmTimeout)
		analysis = e.scorer.Analyze(scoreCtx, text, history, exchanges)
		cancel()
	}
	e.metrics.ObserveLeadScore(analysis.Score)

	if analysis.ShouldCapture && e.capturer != nil {
		profile, perr := e.profiles.Profile(ctx, req.UserID)
		if perr != nil {
			e.logger.Warn("failed to load profile for lead capture", "user_id", req.UserID, "error", perr)
		}
		if cerr := e.capturer.CaptureFromConversation(ctx, req.UserID, analysis, profile); cerr != nil {
			e.logger.Error("lead capture failed", "user_id", req.UserID, "error", cerr)
		} else {
			e.metrics.ObserveLeadCapture()
		}
	}

	resp.Lead = &analysis
	e.metrics.ObserveTurn(string(resp.Kind))
	return resp
}

// respond picks the branch for this turn. A panic in any branch degrades to
// the fallback reply so the turn still completes and gets recorded.
func (e *Engine) respond(ctx context.Context, userID, text string, history []ChatMessage) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("turn handler panicked", "user_id", userID, "panic", fmt.Sprint(r))
			resp = Response{Message: fallbackReply, Kind: KindError}
		}
	}()

	switch {
	case e.isClarificationReply(text, history):
		return e.handlePremium(text, history)
	case IsQuoteFollowUp(text, history):
		return e.handleFollowUp(ctx, text, history)
	case IsPremiumRequest(text):
		return e.handlePremium(text, history)
	default:
		return e.handleGeneric(ctx, text, history)
	}
}

// isClarificationReply reports whether the previous assistant turn asked for
// quote details and the current message supplies at least one of them: a
// parameter value, or the product type when that was the question. Such turns
// resume the quote flow even though they carry no quote keywords of their own.
func (e *Engine) isClarificationReply(text string, history []ChatMessage) bool {
	if len(history) == 0 {
		return false
	}
	last := history[len(history)-1]
	if last.Role != ChatRoleAssistant || !strings.Contains(last.Content, clarificationMarker) {
		return false
	}
	if insurance.ClassifyInsuranceType(text) != insurance.TypeUnknown {
		return true
	}
	return e.extractor.Extract(text) != (insurance.Parameters{})
}

func (e *Engine) handlePremium(text string, history []ChatMessage) Response {
	userMsgs := collectUserMessages(history)

	product := insurance.ClassifyInsuranceType(text)
	if product == insurance.TypeUnknown {
		product = insurance.ClassifyInsuranceType(strings.Join(userMsgs, " "))
	}
	if product == insurance.TypeUnknown {
		return Response{
			Message: fmt.Sprintf("Happy to help with a quote! %s to know which cover you're after: auto, health, life, or business insurance.", clarificationMarker),
			Kind:    KindClarification,
		}
	}

	params := e.gatherParameters(product, text, userMsgs)

	if missing := insurance.MissingFields(product, params); len(missing) > 0 {
		return clarificationResponse(product, missing)
	}

	quote, err := insurance.CalculatePremium(product, params)
	if err != nil {
		if errors.Is(err, insurance.ErrBusinessQuoteUnavailable) {
			return businessHandOffResponse()
		}
		var missErr *insurance.MissingParametersError
		if errors.As(err, &missErr) {
			return clarificationResponse(product, missErr.Fields)
		}
		e.logger.Error("premium calculation failed", "product", product, "error", err)
		return Response{Message: fallbackReply, Kind: KindError}
	}

	e.metrics.ObserveQuote(string(product))
	return Response{
		Message: formatQuoteMessage(product, params, quote),
		Kind:    KindQuote,
		Product: product,
		Quote:   quote,
	}
}

func (e *Engine) handleFollowUp(ctx context.Context, text string, history []ChatMessage) Response {
	switch detectFollowUp(text, history) {
	case followUpThirdParty:
		return e.handleThirdPartyFollowUp(text, history)

	case followUpApply:
		return Response{
			Message: "Great choice! One of our licensed agents will reach out shortly to finalize your application. Is there anything else you'd like to know in the meantime?",
			Kind:    KindFollowUp,
			forcedAnalysis: &LeadAnalysis{
				ShouldCapture:   true,
				Score:           9.0,
				Confidence:      0.9,
				Reason:          "customer asked to apply",
				PositiveSignals: []string{"explicit application intent"},
			},
		}

	case followUpCoverageQuestion:
		return coverageDetailsResponse(e.lastQuotedProduct(history))

	case followUpAmbiguousAffirmative:
		return Response{
			Message: "Just to confirm — would you like to go ahead with this policy, or would you prefer to see a cheaper option first?",
			Kind:    KindClarification,
		}

	default:
		// Follow-up wording can dress up a fresh premium request ("how much
		// would health insurance be instead?"); those restart the quote flow.
		if IsPremiumRequest(text) {
			return e.handlePremium(text, history)
		}
		return e.handleGeneric(ctx, text, history)
	}
}

func (e *Engine) handleThirdPartyFollowUp(text string, history []ChatMessage) Response {
	userMsgs := collectUserMessages(history)
	params := e.gatherParameters(insurance.TypeAuto, text, userMsgs)

	if missing := insurance.MissingFields(insurance.TypeAuto, params); len(missing) > 0 {
		return clarificationResponse(insurance.TypeAuto, missing)
	}

	comprehensive := params
	comprehensive.Coverage = insurance.CoverageComprehensive
	fullQuote, err := insurance.CalculatePremium(insurance.TypeAuto, comprehensive)
	if err != nil {
		e.logger.Error("comprehensive recalculation failed", "error", err)
		return Response{Message: fallbackReply, Kind: KindError}
	}

	params.Coverage = insurance.CoverageThirdParty
	quote, err := insurance.CalculatePremium(insurance.TypeAuto, params)
	if err != nil {
		e.logger.Error("third party recalculation failed", "error", err)
		return Response{Message: fallbackReply, Kind: KindError}
	}

	e.metrics.ObserveQuote(string(insurance.TypeAuto))
	msg := fmt.Sprintf(
		"A third-party policy would come to GH₵ %s per year (about GH₵ %s per month) — that's GH₵ %s less than the comprehensive option. Third party covers damage you cause to others, but not your own vehicle. Would you like to proceed with it?",
		formatCedis(quote.Annual), formatCedis(quote.Monthly), formatCedis(fullQuote.Annual-quote.Annual))
	return Response{
		Message: msg,
		Kind:    KindFollowUp,
		Product: insurance.TypeAuto,
		Quote:   quote,
	}
}

// lastQuotedProduct recovers which product the conversation most recently
// quoted, falling back to classifying the whole user side of the history.
func (e *Engine) lastQuotedProduct(history []ChatMessage) insurance.Type {
	product := insurance.ClassifyInsuranceType(strings.Join(collectUserMessages(history), " "))
	if product == insurance.TypeUnknown {
		product = insurance.TypeAuto
	}
	return product
}

func (e *Engine) gatherParameters(product insurance.Type, text string, userMsgs []string) insurance.Parameters {
	fromHistory := e.extractor.ExtractFromHistory(userMsgs)
	current := e.extractor.Extract(text)
	merged := insurance.Merge(fromHistory, current)
	return e.extractor.WithDefaults(product, merged)
}

func (e *Engine) handleGeneric(ctx context.Context, text string, history []ChatMessage) Response {
	var knowledgeContext []string
	if e.knowledge != nil {
		docs, err := e.knowledge.Query(ctx, text, 3)
		if err != nil {
			e.logger.Warn("knowledge retrieval failed", "error", err)
		} else {
			knowledgeContext = docs
		}
	}

	if e.llm == nil {
		return Response{Message: genericFallbackReply(), Kind: KindGeneric}
	}

	system := []string{assistantSystemPrompt}
	if len(knowledgeContext) > 0 {
		system = append(system, "Relevant product knowledge:\n"+strings.Join(knowledgeContext, "\n---\n"))
	}

	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: text})

	llmCtx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()
	resp, err := e.llm.Complete(llmCtx, LLMRequest{
		System:    system,
		Messages:  messages,
		MaxTokens: 600,
	})
	if err != nil {
		e.logger.Warn("generic reply generation failed", "error", err)
		e.metrics.ObserveLLMFailure("generic_reply")
		return Response{Message: genericFallbackReply(), Kind: KindGeneric}
	}
	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return Response{Message: genericFallbackReply(), Kind: KindGeneric}
	}
	return Response{Message: reply, Kind: KindGeneric}
}

func (e *Engine) updateProfile(ctx context.Context, userID, text string) {
	params := e.extractor.Extract(text)
	product := insurance.ClassifyInsuranceType(text)

	profile := Profile{
		Age:        params.Age,
		Location:   params.Location,
		FamilySize: params.FamilySize,
	}
	if product != insurance.TypeUnknown {
		profile.Interests = []string{string(product)}
	}
	if profile.Age == 0 && profile.Location == "" && profile.FamilySize == 0 && len(profile.Interests) == 0 {
		return
	}
	if err := e.profiles.MergeProfile(ctx, userID, profile); err != nil {
		e.logger.Warn("profile update failed", "user_id", userID, "error", err)
	}
}

// countExchanges counts completed user/assistant round trips in the history.
func countExchanges(history []ChatMessage) int {
	var user, assistant int
	for _, msg := range history {
		switch msg.Role {
		case ChatRoleUser:
			user++
		case ChatRoleAssistant:
			assistant++
		}
	}
	if user < assistant {
		return user
	}
	return assistant
}

func genericFallbackReply() string {
	return "I can help you with auto, health, life, and business insurance, from coverage questions to instant price estimates. What would you like to know?"
}

// fieldPrompts maps calculation fields to the wording used when asking the
// customer to supply them.
var fieldPrompts = map[string]string{
	"age":            "your age (for example \"I am 35\")",
	"vehicleValue":   "your vehicle's current value (for example \"GH₵ 80,000\")",
	"coverageAmount": "the coverage amount you want (for example \"GH₵ 500,000\")",
	"planType":       "your preferred plan: basic, standard, or premium",
	"familySize":     "how many people to cover (for example \"family of 4\")",
	"smokingStatus":  "whether anyone to be covered smokes",
	"businessType":   "the kind of business you run (for example a shop or restaurant)",
	"employeeCount":  "how many employees you have",
	"propertyValue":  "the value of your business property",
	"annualRevenue":  "your approximate annual revenue",
}

func clarificationResponse(product insurance.Type, missing []string) Response {
	prompts := make([]string, 0, len(missing))
	for _, field := range missing {
		if p, ok := fieldPrompts[field]; ok {
			prompts = append(prompts, p)
		} else {
			prompts = append(prompts, field)
		}
	}
	msg := fmt.Sprintf("I can work out a quote for %s insurance. %s %s.",
		product, clarificationMarker, joinNaturally(prompts))
	return Response{
		Message: msg,
		Kind:    KindClarification,
		Product: product,
		Missing: missing,
	}
}

func businessHandOffResponse() Response {
	return Response{
		Message: "Business cover is tailored to each company, so I'll connect you with our commercial insurance specialist for an exact figure. They'll be in touch shortly — is there anything else I can help with in the meantime?",
		Kind:    KindFollowUp,
		Product: insurance.TypeBusiness,
		forcedAnalysis: &LeadAnalysis{
			ShouldCapture:   true,
			Score:           9.0,
			Confidence:      0.9,
			Reason:          "business cover requires specialist hand-off",
			PositiveSignals: []string{"complete business quote request"},
		},
	}
}

func coverageDetailsResponse(product insurance.Type) Response {
	var msg string
	switch product {
	case insurance.TypeAuto:
		msg = "Comprehensive auto cover includes damage to your own vehicle, theft, fire, and damage you cause to others. Third party only covers damage you cause to other people and their property. Would you like me to compare the two for your car?"
	case insurance.TypeHealth:
		msg = "Our health plans cover hospital admissions, outpatient visits, and prescribed medication; the standard and premium tiers add specialist care and wider hospital networks. Want me to walk through the tiers?"
	case insurance.TypeLife:
		msg = "Life cover pays the full sum assured to your beneficiaries if you pass away during the policy term, with funeral benefit included. Want to adjust the coverage amount and see how the premium changes?"
	default:
		msg = "Coverage depends on the product — tell me whether you're asking about auto, health, life, or business insurance and I'll give you the details."
	}
	return Response{Message: msg, Kind: KindFollowUp, Product: product}
}

// breakdownOrder fixes the display order of quote breakdown entries.
var breakdownOrder = []string{
	"basePremium",
	"ageMultiplier",
	"locationMultiplier",
	"coverageMultiplier",
	"historyMultiplier",
	"securityMultiplier",
	"familyMultiplier",
	"smokerMultiplier",
	"conditionsMultiplier",
	"coverageThousands",
	"ratePerThousand",
}

var breakdownLabels = map[string]string{
	"ageMultiplier":        "Age factor",
	"locationMultiplier":   "Location factor",
	"coverageMultiplier":   "Coverage type",
	"historyMultiplier":    "Driving history",
	"securityMultiplier":   "Security devices",
	"familyMultiplier":     "Family size",
	"smokerMultiplier":     "Smoking status",
	"conditionsMultiplier": "Pre-existing conditions",
}

func formatQuoteMessage(product insurance.Type, params insurance.Parameters, quote *insurance.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's your %s insurance estimate: GH₵ %s per year, or about GH₵ %s per month.\n",
		product, formatCedis(quote.Annual), formatCedis(quote.Monthly))

	for _, key := range breakdownOrder {
		value, ok := quote.Breakdown[key]
		if !ok {
			continue
		}
		switch key {
		case "basePremium":
			fmt.Fprintf(&b, "- Base premium: GH₵ %s\n", formatCedis(int(value)))
		case "coverageThousands":
			fmt.Fprintf(&b, "- Sum assured: GH₵ %s\n", formatCedis(int(value*1000)))
		case "ratePerThousand":
			fmt.Fprintf(&b, "- Rate: GH₵ %.0f per GH₵ 1,000 of cover\n", value)
		default:
			if value == 1.0 {
				continue
			}
			percent, label := insurance.MultiplierDelta(value)
			fmt.Fprintf(&b, "- %s: %.0f%% %s\n", breakdownLabels[key], percent, label)
		}
	}

	fmt.Fprintf(&b, "This estimate is valid for %d days.", quote.ValidDays)

	if product == insurance.TypeAuto && params.Coverage == insurance.CoverageComprehensive {
		b.WriteString(" If you'd like a cheaper option, ask me about third-party cover.")
	}
	return b.String()
}

// formatCedis renders a whole-cedi amount with thousands separators.
func formatCedis(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

func joinNaturally(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
