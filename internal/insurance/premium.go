package insurance

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Quote is the calculated premium for one product. Amounts are whole Ghana
// cedis; Monthly is round(Annual/12). Breakdown holds the named contributors
// so the response layer can explain each delta from 1.0.
type Quote struct {
	Product   Type               `json:"product"`
	Annual    int                `json:"annual"`
	Monthly   int                `json:"monthly"`
	Breakdown map[string]float64 `json:"breakdown"`
	ValidDays int                `json:"valid_days"`
}

// ErrBusinessQuoteUnavailable signals that business premiums require a
// specialist review rather than an automated figure.
var ErrBusinessQuoteUnavailable = errors.New("insurance: business premiums require a specialist review")

// ErrUnknownType is returned when the product type has no calculation rules.
var ErrUnknownType = errors.New("insurance: unknown insurance type")

// MissingParametersError reports every required field absent from a
// calculation request. Callers use the field list to build a clarification
// prompt; a quote is never produced with missing fields.
type MissingParametersError struct {
	Product Type
	Fields  []string
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("insurance: %s quote missing required fields: %s", e.Product, strings.Join(e.Fields, ", "))
}

// RequiredFields returns the calculation-critical field names per product.
// Location and coverage type are defaulted upstream and deliberately absent.
func RequiredFields(product Type) []string {
	switch product {
	case TypeAuto:
		return []string{"age", "vehicleValue"}
	case TypeHealth:
		return []string{"age", "planType", "familySize", "smokingStatus"}
	case TypeLife:
		return []string{"age", "coverageAmount"}
	case TypeBusiness:
		return []string{"businessType", "employeeCount", "propertyValue", "annualRevenue"}
	default:
		return nil
	}
}

// MissingFields reports which required fields are absent for the product.
func MissingFields(product Type, p Parameters) []string {
	var missing []string
	for _, field := range RequiredFields(product) {
		switch field {
		case "age":
			if p.Age == 0 {
				missing = append(missing, field)
			}
		case "vehicleValue":
			if p.VehicleValue == 0 {
				missing = append(missing, field)
			}
		case "coverageAmount":
			if p.CoverageAmount == 0 {
				missing = append(missing, field)
			}
		case "planType":
			if p.PlanType == "" {
				missing = append(missing, field)
			}
		case "familySize":
			if p.FamilySize == 0 {
				missing = append(missing, field)
			}
		case "smokingStatus":
			if p.Smoker == nil {
				missing = append(missing, field)
			}
		case "businessType":
			if p.BusinessType == "" {
				missing = append(missing, field)
			}
		case "employeeCount":
			if p.EmployeeCount == 0 {
				missing = append(missing, field)
			}
		case "propertyValue":
			if p.PropertyValue == 0 {
				missing = append(missing, field)
			}
		case "annualRevenue":
			if p.AnnualRevenue == 0 {
				missing = append(missing, field)
			}
		}
	}
	return missing
}

const (
	autoBaseRate = 0.05 // comprehensive annual base as a fraction of vehicle value

	// third party is a flat fraction of the comprehensive figure
	thirdPartyFactor = 0.25

	quoteValidDays = 30
)

// CalculatePremium maps a (type, parameters) pair to a premium quote.
// Returns *MissingParametersError when required fields are absent and
// ErrBusinessQuoteUnavailable for business cover with complete fields.
func CalculatePremium(product Type, p Parameters) (*Quote, error) {
	if missing := MissingFields(product, p); len(missing) > 0 {
		return nil, &MissingParametersError{Product: product, Fields: missing}
	}

	switch product {
	case TypeAuto:
		return calculateAuto(p), nil
	case TypeHealth:
		return calculateHealth(p), nil
	case TypeLife:
		return calculateLife(p), nil
	case TypeBusiness:
		return nil, ErrBusinessQuoteUnavailable
	default:
		return nil, ErrUnknownType
	}
}

func calculateAuto(p Parameters) *Quote {
	base := float64(p.VehicleValue) * autoBaseRate

	ageMult := 1.0
	switch {
	case p.Age < 25:
		ageMult = 1.3
	case p.Age <= 35:
		ageMult = 1.1
	case p.Age <= 55:
		ageMult = 1.0
	default:
		ageMult = 1.15
	}

	locationMult := 1.0
	switch p.Location {
	case "accra", "kumasi":
		locationMult = 1.2
	case "tema", "takoradi":
		locationMult = 1.1
	}

	coverageMult := 1.0
	if p.Coverage == CoverageThirdParty {
		coverageMult = thirdPartyFactor
	}

	historyMult := 1.0
	switch p.DrivingHistory {
	case "clean":
		historyMult = 0.9
	case "accidents":
		historyMult = 1.25
	}

	securityMult := 1.0
	if p.SecurityFitted {
		securityMult = 0.95
	}

	annual := roundCedis(base * ageMult * locationMult * coverageMult * historyMult * securityMult)
	return newQuote(TypeAuto, annual, map[string]float64{
		"basePremium":        math.Round(base),
		"ageMultiplier":      ageMult,
		"locationMultiplier": locationMult,
		"coverageMultiplier": coverageMult,
		"historyMultiplier":  historyMult,
		"securityMultiplier": securityMult,
	})
}

func calculateHealth(p Parameters) *Quote {
	base := 2400.0
	switch p.PlanType {
	case PlanBasic:
		base = 1200
	case PlanStandard:
		base = 2400
	case PlanPremium:
		base = 4800
	}

	ageMult := 1.0
	switch {
	case p.Age < 30:
		ageMult = 0.9
	case p.Age <= 45:
		ageMult = 1.0
	case p.Age <= 60:
		ageMult = 1.3
	default:
		ageMult = 1.6
	}

	familyMult := 1.0 + 0.4*float64(p.FamilySize-1)

	smokerMult := 1.0
	if p.Smoker != nil && *p.Smoker {
		smokerMult = 1.5
	}

	conditionsMult := 1.0
	if p.Conditions != nil && *p.Conditions {
		conditionsMult = 1.3
	}

	annual := roundCedis(base * ageMult * familyMult * smokerMult * conditionsMult)
	return newQuote(TypeHealth, annual, map[string]float64{
		"basePremium":          base,
		"ageMultiplier":        ageMult,
		"familyMultiplier":     familyMult,
		"smokerMultiplier":     smokerMult,
		"conditionsMultiplier": conditionsMult,
	})
}

// life brackets: <35, <45, <55, >=55 at increasing rates per GH₵1,000 of cover
func lifeRatePerThousand(age int) float64 {
	switch {
	case age < 35:
		return 5
	case age < 45:
		return 8
	case age < 55:
		return 14
	default:
		return 25
	}
}

func calculateLife(p Parameters) *Quote {
	rate := lifeRatePerThousand(p.Age)
	annual := roundCedis(float64(p.CoverageAmount) / 1000 * rate)
	return newQuote(TypeLife, annual, map[string]float64{
		"coverageThousands": float64(p.CoverageAmount) / 1000,
		"ratePerThousand":   rate,
	})
}

func newQuote(product Type, annual int, breakdown map[string]float64) *Quote {
	return &Quote{
		Product:   product,
		Annual:    annual,
		Monthly:   int(math.Round(float64(annual) / 12)),
		Breakdown: breakdown,
		ValidDays: quoteValidDays,
	}
}

func roundCedis(v float64) int {
	return int(math.Round(v))
}

// MultiplierDelta converts a breakdown multiplier into the percentage and
// label shown to the user: abs((m-1)*100), "increase" when above 1.0 and
// "discount" below.
func MultiplierDelta(multiplier float64) (percent float64, label string) {
	percent = math.Abs((multiplier - 1) * 100)
	if multiplier >= 1 {
		return percent, "increase"
	}
	return percent, "discount"
}
