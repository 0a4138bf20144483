package insurance

import (
	"errors"
	"math"
	"testing"
)

func completeParams(product Type) Parameters {
	no := false
	switch product {
	case TypeAuto:
		return Parameters{Age: 41, VehicleValue: 400000, Location: "accra", Coverage: CoverageComprehensive}
	case TypeHealth:
		return Parameters{Age: 35, PlanType: PlanStandard, FamilySize: 4, Smoker: &no}
	case TypeLife:
		return Parameters{Age: 41, CoverageAmount: 200000}
	case TypeBusiness:
		return Parameters{BusinessType: "retail", EmployeeCount: 10, PropertyValue: 500000, AnnualRevenue: 1000000}
	}
	return Parameters{}
}

func TestCalculatePremium_CompleteParamsProduceQuote(t *testing.T) {
	breakdownKeys := map[Type][]string{
		TypeAuto:   {"basePremium", "ageMultiplier", "locationMultiplier", "coverageMultiplier", "historyMultiplier", "securityMultiplier"},
		TypeHealth: {"basePremium", "ageMultiplier", "familyMultiplier", "smokerMultiplier", "conditionsMultiplier"},
		TypeLife:   {"coverageThousands", "ratePerThousand"},
	}

	for product, keys := range breakdownKeys {
		t.Run(string(product), func(t *testing.T) {
			quote, err := CalculatePremium(product, completeParams(product))
			if err != nil {
				t.Fatalf("CalculatePremium(%s) error = %v", product, err)
			}
			if quote.Annual <= 0 {
				t.Errorf("annual premium = %d, want > 0", quote.Annual)
			}
			wantMonthly := int(math.Round(float64(quote.Annual) / 12))
			if quote.Monthly != wantMonthly {
				t.Errorf("monthly = %d, want round(annual/12) = %d", quote.Monthly, wantMonthly)
			}
			for _, key := range keys {
				if _, ok := quote.Breakdown[key]; !ok {
					t.Errorf("breakdown missing key %q", key)
				}
			}
		})
	}
}

func TestCalculatePremium_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		product Type
		params  Parameters
		want    []string
	}{
		{"auto no params", TypeAuto, Parameters{}, []string{"age", "vehicleValue"}},
		{"auto only age", TypeAuto, Parameters{Age: 30}, []string{"vehicleValue"}},
		{"health no smoker answer", TypeHealth, Parameters{Age: 30, PlanType: PlanBasic, FamilySize: 2}, []string{"smokingStatus"}},
		{"life no coverage", TypeLife, Parameters{Age: 30}, []string{"coverageAmount"}},
		{"business empty", TypeBusiness, Parameters{}, []string{"businessType", "employeeCount", "propertyValue", "annualRevenue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := CalculatePremium(tt.product, tt.params)
			if quote != nil {
				t.Fatal("quote produced despite missing fields")
			}
			var missingErr *MissingParametersError
			if !errors.As(err, &missingErr) {
				t.Fatalf("error = %v, want *MissingParametersError", err)
			}
			if len(missingErr.Fields) != len(tt.want) {
				t.Fatalf("missing fields = %v, want %v", missingErr.Fields, tt.want)
			}
			for i, f := range tt.want {
				if missingErr.Fields[i] != f {
					t.Errorf("missing[%d] = %q, want %q", i, missingErr.Fields[i], f)
				}
			}
		})
	}
}

func TestCalculatePremium_ThirdPartyMateriallyCheaper(t *testing.T) {
	params := completeParams(TypeAuto)

	comprehensive, err := CalculatePremium(TypeAuto, params)
	if err != nil {
		t.Fatalf("comprehensive quote error: %v", err)
	}

	params.Coverage = CoverageThirdParty
	thirdParty, err := CalculatePremium(TypeAuto, params)
	if err != nil {
		t.Fatalf("third party quote error: %v", err)
	}

	if thirdParty.Annual >= comprehensive.Annual/2 {
		t.Errorf("third party annual %d not materially below comprehensive %d", thirdParty.Annual, comprehensive.Annual)
	}
}

func TestCalculatePremium_LifeBrackets(t *testing.T) {
	tests := []struct {
		age      int
		wantRate float64
	}{
		{20, 5},
		{34, 5},
		{35, 8},
		{44, 8},
		{45, 14},
		{54, 14},
		{55, 25},
		{70, 25},
	}

	for _, tt := range tests {
		quote, err := CalculatePremium(TypeLife, Parameters{Age: tt.age, CoverageAmount: 100000})
		if err != nil {
			t.Fatalf("age %d: %v", tt.age, err)
		}
		wantAnnual := int(math.Round(100 * tt.wantRate))
		if quote.Annual != wantAnnual {
			t.Errorf("age %d annual = %d, want %d", tt.age, quote.Annual, wantAnnual)
		}
		if quote.Breakdown["ratePerThousand"] != tt.wantRate {
			t.Errorf("age %d rate = %v, want %v", tt.age, quote.Breakdown["ratePerThousand"], tt.wantRate)
		}
	}
}

func TestCalculatePremium_HealthSmokerLoading(t *testing.T) {
	yes, no := true, false
	base := Parameters{Age: 35, PlanType: PlanStandard, FamilySize: 1, Smoker: &no}

	nonSmoker, err := CalculatePremium(TypeHealth, base)
	if err != nil {
		t.Fatal(err)
	}

	base.Smoker = &yes
	smoker, err := CalculatePremium(TypeHealth, base)
	if err != nil {
		t.Fatal(err)
	}

	if smoker.Annual <= nonSmoker.Annual {
		t.Errorf("smoker annual %d should exceed non-smoker %d", smoker.Annual, nonSmoker.Annual)
	}
	if smoker.Breakdown["smokerMultiplier"] != 1.5 {
		t.Errorf("smokerMultiplier = %v, want 1.5", smoker.Breakdown["smokerMultiplier"])
	}
}

func TestCalculatePremium_BusinessHandsOff(t *testing.T) {
	_, err := CalculatePremium(TypeBusiness, completeParams(TypeBusiness))
	if !errors.Is(err, ErrBusinessQuoteUnavailable) {
		t.Errorf("error = %v, want ErrBusinessQuoteUnavailable", err)
	}
}

func TestMultiplierDelta(t *testing.T) {
	tests := []struct {
		multiplier  float64
		wantPercent float64
		wantLabel   string
	}{
		{1.2, 20, "increase"},
		{0.9, 10, "discount"},
		{1.0, 0, "increase"},
	}

	for _, tt := range tests {
		pct, label := MultiplierDelta(tt.multiplier)
		if math.Abs(pct-tt.wantPercent) > 1e-9 || label != tt.wantLabel {
			t.Errorf("MultiplierDelta(%v) = (%v, %q), want (%v, %q)", tt.multiplier, pct, label, tt.wantPercent, tt.wantLabel)
		}
	}
}
