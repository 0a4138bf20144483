package conversation

import (
	"regexp"
	"strings"
)

// Premium-intent rules v2. Ordered: regex patterns first (they capture the
// explicit "how much" phrasings), then bare keywords for terse messages.
var premiumRequestREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhow\s+much\b.*\b(insurance|premium|cover|policy)\b`),
	regexp.MustCompile(`(?i)\b(insurance|premium|cover|policy)\b.*\bhow\s+much\b`),
	regexp.MustCompile(`(?i)\b(get|want|need|give|send)\b.*\b(quote|quotation|premium|estimate)\b`),
	regexp.MustCompile(`(?i)\bwhat('?s| is| would| will)\b.*\b(premium|cost|price)\b`),
	regexp.MustCompile(`(?i)\bcost\s+of\b.*\binsurance\b`),
	regexp.MustCompile(`(?i)\binsure\s+my\b`),
}

var premiumRequestKeywords = []string{
	"quote",
	"quotation",
	"premium",
	"how much to insure",
	"price for insurance",
}

// IsPremiumRequest reports whether the message asks for a price, quote, or
// premium figure.
func IsPremiumRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range premiumRequestREs {
		if re.MatchString(lower) {
			return true
		}
	}
	for _, kw := range premiumRequestKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Follow-up detection. A quote follow-up only exists when the assistant
// recently quoted a figure, so the check is anchored on the tail of the
// history rather than on the message alone.

var quoteMarkerRE = regexp.MustCompile(`(?i)(gh₵|ghs|cedis|premium|per\s+year|per\s+month)`)

const followUpWindow = 4

var followUpKeywords = []string{
	"third party",
	"third-party",
	"cheaper",
	"lower",
	"too expensive",
	"too much",
	"discount",
	"reduce",
	"comprehensive",
	"cover",
	"coverage",
	"what does it",
	"include",
	"apply",
	"sign up",
	"sign me up",
	"proceed",
	"go ahead",
	"take it",
	"buy",
	"monthly",
	"instead",
	"yes",
	"yeah",
	"ok",
	"okay",
	"sure",
}

// lastAssistantQuote scans the tail of history for the most recent
// assistant message that carries a quoted figure.
func lastAssistantQuote(history []ChatMessage) (ChatMessage, bool) {
	start := len(history) - followUpWindow
	if start < 0 {
		start = 0
	}
	for i := len(history) - 1; i >= start; i-- {
		msg := history[i]
		if msg.Role == ChatRoleAssistant && quoteMarkerRE.MatchString(msg.Content) {
			return msg, true
		}
	}
	return ChatMessage{}, false
}

// IsQuoteFollowUp reports whether the message continues a recently delivered
// quote: the assistant quoted a figure within the last few exchanges and the
// message uses follow-up language.
func IsQuoteFollowUp(text string, history []ChatMessage) bool {
	if _, ok := lastAssistantQuote(history); !ok {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, kw := range followUpKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// followUpKind classifies what a quote follow-up is asking for.
type followUpKind int

const (
	followUpNone followUpKind = iota
	followUpThirdParty
	followUpApply
	followUpCoverageQuestion
	followUpAmbiguousAffirmative
)

var thirdPartyFollowUpRE = regexp.MustCompile(`(?i)\bthird[\s-]?party\b`)

var cheaperRE = regexp.MustCompile(`(?i)\b(cheaper|cheapest|lower|less\s+expensive|too\s+(expensive|much|high)|reduce|discount)\b`)

var applyRE = regexp.MustCompile(`(?i)\b(apply|sign\s+(me\s+)?up|proceed|go\s+ahead|take\s+it|buy\s+it|i'?ll\s+take|let'?s\s+do\s+it|get\s+started)\b`)

var coverageQuestionRE = regexp.MustCompile(`(?i)\b(what\s+(does|do)\s+(it|that|this|the\s+policy)\s+(cover|include)|what'?s\s+(covered|included)|does\s+(it|this|that)\s+cover|coverage\s+details?)\b`)

var affirmativeRE = regexp.MustCompile(`(?i)^\s*(yes|yeah|yep|yea|ok|okay|sure|alright|sounds\s+good|please)\s*[.!]?\s*$`)

var assistantOfferedThirdPartyRE = regexp.MustCompile(`(?i)third[\s-]?party`)

// assistantAskedToProceedRE marks quotes that already asked a closing
// question; a "yes" to one of those is acceptance, not a recalculation.
var assistantAskedToProceedRE = regexp.MustCompile(`(?i)\bproceed\b`)

// detectFollowUp resolves a follow-up message into a concrete action. Bare
// affirmatives inherit meaning from the assistant's last message: if it
// asked whether to proceed the affirmative accepts the policy, if it offered
// a third-party alternative the affirmative accepts that offer, otherwise
// the intent is ambiguous and needs disambiguation.
func detectFollowUp(text string, history []ChatMessage) followUpKind {
	lower := strings.ToLower(text)

	switch {
	case thirdPartyFollowUpRE.MatchString(lower), cheaperRE.MatchString(lower):
		return followUpThirdParty
	case applyRE.MatchString(lower):
		return followUpApply
	case coverageQuestionRE.MatchString(lower):
		return followUpCoverageQuestion
	}

	if affirmativeRE.MatchString(lower) {
		if msg, ok := lastAssistantQuote(history); ok {
			if assistantAskedToProceedRE.MatchString(msg.Content) {
				return followUpApply
			}
			if assistantOfferedThirdPartyRE.MatchString(msg.Content) {
				return followUpThirdParty
			}
		}
		return followUpAmbiguousAffirmative
	}
	return followUpNone
}
