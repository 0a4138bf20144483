package insurance

import "testing"

func TestClassifyInsuranceType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Type
	}{
		{"car keyword", "I need insurance for my car", TypeAuto},
		{"vehicle keyword", "how much to insure a vehicle", TypeAuto},
		{"auto keyword", "auto insurance quote please", TypeAuto},
		{"health keyword", "do you do health plans", TypeHealth},
		{"medical keyword", "medical cover for my family", TypeHealth},
		{"life keyword", "I want life insurance", TypeLife},
		{"funeral keyword", "something to cover funeral costs", TypeLife},
		{"business keyword", "insurance for my business", TypeBusiness},
		{"commercial keyword", "commercial property cover", TypeBusiness},
		{"phrase beats later word", "life insurance for my business partner", TypeLife},
		{"no keyword", "hello, what do you offer?", TypeUnknown},
		{"empty", "", TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyInsuranceType(tt.text)
			if got != tt.want {
				t.Errorf("ClassifyInsuranceType(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyInsuranceType_Idempotent(t *testing.T) {
	for _, text := range []string{
		"car insurance in Accra",
		"health plan for a family of 4",
		"nothing relevant here",
	} {
		first := ClassifyInsuranceType(text)
		second := ClassifyInsuranceType(text)
		if first != second {
			t.Errorf("classification of %q not idempotent: %q then %q", text, first, second)
		}
	}
}
