package insurance

import "strings"

// insuranceKeywordRules maps message keywords to product categories.
// Ordered, first-match-wins; multi-word phrases come before single words so
// "life insurance for my business partner" still classifies as life. Treat
// this table as versioned: changes should be additive so existing tests keep
// pinning behavior (rules v1).
var insuranceKeywordRules = []struct {
	keyword string
	product Type
}{
	{"car insurance", TypeAuto},
	{"vehicle insurance", TypeAuto},
	{"motor insurance", TypeAuto},
	{"health insurance", TypeHealth},
	{"medical insurance", TypeHealth},
	{"life insurance", TypeLife},
	{"life cover", TypeLife},
	{"business insurance", TypeBusiness},
	{"commercial insurance", TypeBusiness},
	{"car", TypeAuto},
	{"vehicle", TypeAuto},
	{"auto", TypeAuto},
	{"motor", TypeAuto},
	{"health", TypeHealth},
	{"medical", TypeHealth},
	{"hospital", TypeHealth},
	{"life", TypeLife},
	{"death", TypeLife},
	{"funeral", TypeLife},
	{"business", TypeBusiness},
	{"commercial", TypeBusiness},
	{"shop", TypeBusiness},
	{"company", TypeBusiness},
}

// ClassifyInsuranceType maps free text to a product category. Returns
// TypeUnknown when no keyword matches; the caller must then prompt the user.
// Deterministic and idempotent.
func ClassifyInsuranceType(text string) Type {
	lower := strings.ToLower(text)
	for _, rule := range insuranceKeywordRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.product
		}
	}
	return TypeUnknown
}
