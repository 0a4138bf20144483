package insurance

import (
	"fmt"
	"testing"
)

func TestExtract_Age(t *testing.T) {
	e := NewExtractor("accra")

	tests := []struct {
		name string
		text string
		want int
	}{
		{"age keyword", "age 41", 41},
		{"age is", "my age is 27", 27},
		{"years old", "I'm looking for cover, 34 years old", 34},
		{"i am", "I am 41 and need car insurance", 41},
		{"contraction", "I'm 52, what would health insurance cost", 52},
		{"comma then clause", "41, I will need comprehensive cover", 41},
		{"lower bound", "I am 16", 16},
		{"upper bound", "age 100", 100},
		{"below range discarded", "I am 12", 0},
		{"above range discarded", "age 104", 0},
		{"no age", "how much is car insurance", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			if got.Age != tt.want {
				t.Errorf("Extract(%q).Age = %d, want %d", tt.text, got.Age, tt.want)
			}
		})
	}
}

func TestExtract_AllValidAgesExact(t *testing.T) {
	e := NewExtractor("accra")
	for age := 16; age <= 100; age++ {
		text := fmt.Sprintf("I am %d", age)
		if got := e.Extract(text).Age; got != age {
			t.Fatalf("Extract(%q).Age = %d, want %d", text, got, age)
		}
	}
}

func TestExtract_MonetaryValue(t *testing.T) {
	e := NewExtractor("accra")

	tests := []struct {
		name        string
		text        string
		wantVehicle int
	}{
		{"currency symbol with commas", "my car is worth GH₵ 400,000", 400000},
		{"cedis suffix", "the vehicle costs 400,000 cedis", 400000},
		{"value is", "value is 400000", 400000},
		{"ghs prefix", "car worth GHS 25,500", 25500},
		{"below plausibility threshold", "my car is worth 900", 0},
		{"age never read as value", "I am 41", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			if got.VehicleValue != tt.wantVehicle {
				t.Errorf("Extract(%q).VehicleValue = %d, want %d", tt.text, got.VehicleValue, tt.wantVehicle)
			}
		})
	}
}

func TestExtract_CoverageAmountContext(t *testing.T) {
	e := NewExtractor("accra")

	got := e.Extract("I want life cover of GH₵ 200,000")
	if got.CoverageAmount != 200000 {
		t.Errorf("CoverageAmount = %d, want 200000", got.CoverageAmount)
	}
	if got.VehicleValue != 0 {
		t.Errorf("VehicleValue = %d, want 0 for coverage-context amounts", got.VehicleValue)
	}
}

func TestExtract_LocationAndCoverage(t *testing.T) {
	e := NewExtractor("accra")

	got := e.Extract("I live in Kumasi and want third party")
	if got.Location != "kumasi" {
		t.Errorf("Location = %q, want kumasi", got.Location)
	}
	if got.Coverage != CoverageThirdParty {
		t.Errorf("Coverage = %q, want third_party", got.Coverage)
	}

	got = e.Extract("3rd-party please")
	if got.Coverage != CoverageThirdParty {
		t.Errorf("Coverage = %q, want third_party for 3rd-party", got.Coverage)
	}

	got = e.Extract("comprehensive cover for my car")
	if got.Coverage != CoverageComprehensive {
		t.Errorf("Coverage = %q, want comprehensive", got.Coverage)
	}
}

func TestWithDefaults(t *testing.T) {
	e := NewExtractor("accra")

	p := e.WithDefaults(TypeAuto, Parameters{})
	if p.Location != "accra" {
		t.Errorf("default Location = %q, want accra", p.Location)
	}
	if p.Coverage != CoverageComprehensive {
		t.Errorf("default Coverage = %q, want comprehensive", p.Coverage)
	}

	// Stated values survive.
	p = e.WithDefaults(TypeAuto, Parameters{Location: "tamale", Coverage: CoverageThirdParty})
	if p.Location != "tamale" || p.Coverage != CoverageThirdParty {
		t.Errorf("stated values overwritten: %+v", p)
	}
}

func TestExtract_FamilyAndSmoking(t *testing.T) {
	e := NewExtractor("accra")

	tests := []struct {
		text       string
		wantFamily int
		wantSmoker *bool
	}{
		{"I'm married", 2, nil},
		{"we have children", 4, nil},
		{"single, basic plan", 1, nil},
		{"family of 6", 6, nil},
		{"I'm a non-smoker", 0, boolPtr(false)},
		{"I am a smoker", 0, boolPtr(true)},
		{"married non smoker", 2, boolPtr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := e.Extract(tt.text)
			if got.FamilySize != tt.wantFamily {
				t.Errorf("FamilySize = %d, want %d", got.FamilySize, tt.wantFamily)
			}
			if (got.Smoker == nil) != (tt.wantSmoker == nil) {
				t.Fatalf("Smoker presence = %v, want %v", got.Smoker, tt.wantSmoker)
			}
			if got.Smoker != nil && *got.Smoker != *tt.wantSmoker {
				t.Errorf("Smoker = %v, want %v", *got.Smoker, *tt.wantSmoker)
			}
		})
	}
}

func TestExtract_Scenario(t *testing.T) {
	e := NewExtractor("accra")

	got := e.Extract("I am 41 and my car is worth GH₵ 400,000 in Accra, comprehensive")
	if got.Age != 41 {
		t.Errorf("Age = %d, want 41", got.Age)
	}
	if got.VehicleValue != 400000 {
		t.Errorf("VehicleValue = %d, want 400000", got.VehicleValue)
	}
	if got.Location != "accra" {
		t.Errorf("Location = %q, want accra", got.Location)
	}
	if got.Coverage != CoverageComprehensive {
		t.Errorf("Coverage = %q, want comprehensive", got.Coverage)
	}
}

func TestExtractFromHistory_CurrentWins(t *testing.T) {
	e := NewExtractor("accra")

	history := e.ExtractFromHistory([]string{
		"I am 41 and my car is worth GH₵ 400,000",
		"I live in Kumasi",
	})
	if history.Age != 41 || history.VehicleValue != 400000 || history.Location != "kumasi" {
		t.Fatalf("history extraction = %+v", history)
	}

	current := e.Extract("actually the car is worth GH₵ 350,000")
	merged := Merge(history, current)
	if merged.VehicleValue != 350000 {
		t.Errorf("merged VehicleValue = %d, want current-message 350000", merged.VehicleValue)
	}
	if merged.Age != 41 {
		t.Errorf("merged Age = %d, want 41 carried from history", merged.Age)
	}
}

func TestExtract_BusinessFields(t *testing.T) {
	e := NewExtractor("accra")

	got := e.Extract("I run a restaurant with 12 employees, property worth GH₵ 800,000, revenue of 1,500,000")
	if got.BusinessType != "hospitality" {
		t.Errorf("BusinessType = %q, want hospitality", got.BusinessType)
	}
	if got.EmployeeCount != 12 {
		t.Errorf("EmployeeCount = %d, want 12", got.EmployeeCount)
	}
	if got.PropertyValue != 800000 {
		t.Errorf("PropertyValue = %d, want 800000", got.PropertyValue)
	}
	if got.AnnualRevenue != 1500000 {
		t.Errorf("AnnualRevenue = %d, want 1500000", got.AnnualRevenue)
	}
}

func boolPtr(b bool) *bool { return &b }
