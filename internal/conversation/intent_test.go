package conversation

import "testing"

func TestIsPremiumRequest(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"How much is car insurance?", true},
		{"how much would it cost to insure my car?", true},
		{"I want a quote for health insurance", true},
		{"Can you give me a quotation?", true},
		{"What's the premium for life cover?", true},
		{"what is the cost of insurance for my shop", true},
		{"I need to insure my truck", true},
		{"Hello", false},
		{"What does comprehensive include?", false},
		{"Do you have an office in Kumasi?", false},
	}
	for _, tt := range tests {
		if got := IsPremiumRequest(tt.text); got != tt.want {
			t.Errorf("IsPremiumRequest(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func quotedHistory() []ChatMessage {
	return []ChatMessage{
		{Role: ChatRoleUser, Content: "I want a quote for my car insurance, I am 30 and my car is worth GH₵ 100,000"},
		{Role: ChatRoleAssistant, Content: "Here's your auto insurance estimate: GH₵ 6,600 per year. If you'd like a cheaper option, ask me about third-party cover."},
	}
}

func TestIsQuoteFollowUp(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		history []ChatMessage
		want    bool
	}{
		{"cheaper after quote", "Can I get it cheaper?", quotedHistory(), true},
		{"third party after quote", "What about third party?", quotedHistory(), true},
		{"apply after quote", "I want to apply", quotedHistory(), true},
		{"bare yes after quote", "yes", quotedHistory(), true},
		{"no quote in history", "Can I get it cheaper?", nil, false},
		{"unrelated after quote", "Where is your Tamale office?", quotedHistory(), false},
		{"quote too far back", "Can I get it cheaper?", append([]ChatMessage{
			quotedHistory()[0], quotedHistory()[1],
		}, []ChatMessage{
			{Role: ChatRoleUser, Content: "thanks"},
			{Role: ChatRoleAssistant, Content: "You're welcome!"},
			{Role: ChatRoleUser, Content: "where are you based"},
			{Role: ChatRoleAssistant, Content: "We are in Accra."},
			{Role: ChatRoleUser, Content: "nice"},
			{Role: ChatRoleAssistant, Content: "Anything else?"},
		}...), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuoteFollowUp(tt.text, tt.history); got != tt.want {
				t.Errorf("IsQuoteFollowUp(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectFollowUp(t *testing.T) {
	tests := []struct {
		name string
		text string
		want followUpKind
	}{
		{"explicit third party", "give me the third party price", followUpThirdParty},
		{"hyphenated", "what about third-party?", followUpThirdParty},
		{"cheaper", "that's too expensive", followUpThirdParty},
		{"discount", "any discount available?", followUpThirdParty},
		{"apply", "I'd like to apply please", followUpApply},
		{"sign up", "sign me up", followUpApply},
		{"proceed", "let's proceed", followUpApply},
		{"coverage question", "what does it cover?", followUpCoverageQuestion},
		{"included question", "what's included?", followUpCoverageQuestion},
		{"unrelated", "where is your office", followUpNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFollowUp(tt.text, quotedHistory()); got != tt.want {
				t.Errorf("detectFollowUp(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectFollowUpBareAffirmative(t *testing.T) {
	// The last quote offered a third-party alternative, so a bare yes
	// accepts that offer.
	if got := detectFollowUp("yes", quotedHistory()); got != followUpThirdParty {
		t.Errorf("affirmative after third-party offer = %v, want followUpThirdParty", got)
	}

	plainQuote := []ChatMessage{
		{Role: ChatRoleUser, Content: "how much is life insurance for me, I am 40, cover of GH₵ 500,000"},
		{Role: ChatRoleAssistant, Content: "Here's your life insurance estimate: GH₵ 4,000 per year."},
	}
	if got := detectFollowUp("yes", plainQuote); got != followUpAmbiguousAffirmative {
		t.Errorf("affirmative without an offer = %v, want followUpAmbiguousAffirmative", got)
	}
}

func TestDetectFollowUpAffirmativeAfterThirdPartyQuote(t *testing.T) {
	// Once the third-party figure has been delivered and the assistant asked
	// whether to proceed, a bare yes is acceptance, not another recalculation.
	history := append(quotedHistory(), []ChatMessage{
		{Role: ChatRoleUser, Content: "that's too expensive"},
		{Role: ChatRoleAssistant, Content: "A third-party policy would come to GH₵ 1,650 per year (about GH₵ 138 per month) — that's GH₵ 4,950 less than the comprehensive option. Third party covers damage you cause to others, but not your own vehicle. Would you like to proceed with it?"},
	}...)

	if got := detectFollowUp("yes", history); got != followUpApply {
		t.Errorf("affirmative after delivered third-party quote = %v, want followUpApply", got)
	}
}
