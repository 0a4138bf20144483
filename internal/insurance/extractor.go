package insurance

import (
	"regexp"
	"strconv"
	"strings"
)

// ---------- package-level compiled regexes ----------

var (
	ageREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bage\s*(?:is\s*)?(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:years?\s*old|yrs?\s*old|yo)\b`),
		regexp.MustCompile(`(?i)\bi(?:'|’)?m\s+(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\bi\s+am\s+(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\b(\d{1,3})\s*,\s*i\b`),
	}

	moneyREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:gh₵|ghs|ghc|₵)\s*([\d,]+)`),
		regexp.MustCompile(`(?i)([\d,]+)\s*(?:ghana\s+)?cedis\b`),
		regexp.MustCompile(`(?i)(?:worth|valued?\s*(?:is|at)?|value\s*(?:is|of)?|costs?)\s*(?:about\s+|around\s+)?(?:gh₵|ghs|ghc|₵)?\s*([\d,]+)`),
		regexp.MustCompile(`(?i)(?:cover(?:age)?|sum)\s*(?:of|is)?\s*(?:gh₵|ghs|ghc|₵)?\s*([\d,]+)`),
	}

	vehicleContextRE  = regexp.MustCompile(`(?i)\b(car|vehicle|truck|suv|worth)\b`)
	coverageContextRE = regexp.MustCompile(`(?i)\b(cover|coverage|sum\s+assured|payout)\b`)

	thirdPartyRE    = regexp.MustCompile(`(?i)\b(third[\s-]?party|3rd[\s-]?party)\b`)
	comprehensiveRE = regexp.MustCompile(`(?i)\b(comprehensive|comp)\b`)

	employeesRE = regexp.MustCompile(`(?i)\b(\d{1,5})\s*(?:employees|staff|workers)\b`)
	revenueRE   = regexp.MustCompile(`(?i)revenue\s*(?:of|is|around|about)?\s*(?:gh₵|ghs|ghc|₵)?\s*([\d,]+)`)
	propertyRE  = regexp.MustCompile(`(?i)property\s*(?:worth|valued?\s*(?:at)?|value\s*(?:of|is)?)\s*(?:gh₵|ghs|ghc|₵)?\s*([\d,]+)`)

	planTierRE = regexp.MustCompile(`(?i)\b(basic|standard|premium)\s+(?:plan|tier|package|cover)\b`)
	familyOfRE = regexp.MustCompile(`(?i)family\s+of\s+(\d{1,2})`)
)

// minimumPlausibleAmount guards against misreading an age or phone digit
// group as a monetary value.
const minimumPlausibleAmount = 1000

const (
	minValidAge = 16
	maxValidAge = 100
)

// knownCities is the location whitelist. Matching is substring based on the
// lowercased message, same as the classifier keyword tables.
var knownCities = []string{
	"accra",
	"kumasi",
	"tamale",
	"takoradi",
	"cape coast",
	"tema",
	"sunyani",
	"koforidua",
	"bolgatanga",
	"ho",
	"wa",
}

// businessTypeKeywords maps phrases to a normalized business category.
var businessTypeKeywords = []struct {
	keyword  string
	category string
}{
	{"restaurant", "hospitality"},
	{"hotel", "hospitality"},
	{"retail", "retail"},
	{"shop", "retail"},
	{"store", "retail"},
	{"construction", "construction"},
	{"manufacturing", "manufacturing"},
	{"factory", "manufacturing"},
	{"tech", "services"},
	{"office", "services"},
	{"consulting", "services"},
	{"transport", "transport"},
	{"logistics", "transport"},
	{"farm", "agriculture"},
}

// Extractor pulls structured calculation parameters out of free text.
// All methods are pure functions over their inputs.
type Extractor struct {
	defaultCity string
}

// NewExtractor returns an extractor that falls back to defaultCity when a
// message names no known location.
func NewExtractor(defaultCity string) *Extractor {
	if defaultCity == "" {
		defaultCity = "accra"
	}
	return &Extractor{defaultCity: strings.ToLower(defaultCity)}
}

// Extract pulls every recognizable parameter from a single message.
// Missing fields stay at their zero value; no defaults are applied here so
// history merging keeps working (see WithDefaults).
func (e *Extractor) Extract(text string) Parameters {
	var p Parameters
	lower := strings.ToLower(text)

	if age, ok := extractAge(lower); ok {
		p.Age = age
	}

	if amount, ok := extractAmount(lower); ok {
		vehicle := vehicleContextRE.MatchString(lower)
		coverage := coverageContextRE.MatchString(lower)
		if vehicle {
			p.VehicleValue = amount
		}
		if coverage {
			p.CoverageAmount = amount
		}
		if !vehicle && !coverage {
			p.VehicleValue = amount
			p.CoverageAmount = amount
		}
	}

	for _, city := range knownCities {
		if strings.Contains(lower, city) {
			p.Location = city
			break
		}
	}

	if thirdPartyRE.MatchString(lower) {
		p.Coverage = CoverageThirdParty
	} else if comprehensiveRE.MatchString(lower) {
		p.Coverage = CoverageComprehensive
	}

	if m := planTierRE.FindStringSubmatch(lower); len(m) == 2 {
		p.PlanType = PlanTier(m[1])
	} else if strings.Contains(lower, "basic") {
		p.PlanType = PlanBasic
	} else if strings.Contains(lower, "standard") {
		p.PlanType = PlanStandard
	}

	p.FamilySize = extractFamilySize(lower)
	p.Smoker = extractSmoker(lower)
	p.Conditions = extractConditions(lower)

	if strings.Contains(lower, "clean record") || strings.Contains(lower, "no accident") || strings.Contains(lower, "never had an accident") {
		p.DrivingHistory = "clean"
	} else if strings.Contains(lower, "accident") {
		p.DrivingHistory = "accidents"
	}

	if strings.Contains(lower, "alarm") || strings.Contains(lower, "tracker") ||
		strings.Contains(lower, "gps") || strings.Contains(lower, "immobilizer") ||
		strings.Contains(lower, "immobiliser") {
		p.SecurityFitted = true
	}

	for _, bt := range businessTypeKeywords {
		if strings.Contains(lower, bt.keyword) {
			p.BusinessType = bt.category
			break
		}
	}
	if m := employeesRE.FindStringSubmatch(lower); len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			p.EmployeeCount = n
		}
	}
	if m := revenueRE.FindStringSubmatch(lower); len(m) == 2 {
		if n, ok := parseAmount(m[1]); ok {
			p.AnnualRevenue = n
		}
	}
	if m := propertyRE.FindStringSubmatch(lower); len(m) == 2 {
		if n, ok := parseAmount(m[1]); ok {
			p.PropertyValue = n
		}
	}

	return p
}

// ExtractFromHistory re-runs the same pattern family over the concatenation
// of earlier user messages. Callers merge the result under the current
// message's parameters so the current turn wins on conflicts.
func (e *Extractor) ExtractFromHistory(userMessages []string) Parameters {
	if len(userMessages) == 0 {
		return Parameters{}
	}
	return e.Extract(strings.Join(userMessages, " "))
}

// WithDefaults fills the non-critical fields a quote may assume when the user
// never stated them: location and auto coverage type. Calculation-critical
// numeric fields are never defaulted.
func (e *Extractor) WithDefaults(product Type, p Parameters) Parameters {
	if p.Location == "" {
		p.Location = e.defaultCity
	}
	if product == TypeAuto && p.Coverage == "" {
		p.Coverage = CoverageComprehensive
	}
	return p
}

func extractAge(lower string) (int, bool) {
	for _, re := range ageREs {
		m := re.FindStringSubmatch(lower)
		if len(m) != 2 {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		// Out-of-range matches are discarded, not clamped.
		if age < minValidAge || age > maxValidAge {
			continue
		}
		return age, true
	}
	return 0, false
}

func extractAmount(lower string) (int, bool) {
	for _, re := range moneyREs {
		m := re.FindStringSubmatch(lower)
		if len(m) != 2 {
			continue
		}
		if amount, ok := parseAmount(m[1]); ok {
			return amount, true
		}
	}
	return 0, false
}

func parseAmount(raw string) (int, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	amount, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	if amount <= minimumPlausibleAmount {
		return 0, false
	}
	return amount, true
}

func extractFamilySize(lower string) int {
	// Most specific first: an explicit count beats marital-status hints.
	if m := familyOfRE.FindStringSubmatch(lower); len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if strings.Contains(lower, "children") || strings.Contains(lower, "kids") {
		return 4
	}
	if strings.Contains(lower, "married") {
		return 2
	}
	if strings.Contains(lower, "single") {
		return 1
	}
	return 0
}

func extractSmoker(lower string) *bool {
	no := false
	yes := true
	if strings.Contains(lower, "non-smoker") || strings.Contains(lower, "non smoker") ||
		strings.Contains(lower, "don't smoke") || strings.Contains(lower, "dont smoke") ||
		strings.Contains(lower, "do not smoke") {
		return &no
	}
	if strings.Contains(lower, "smoker") || strings.Contains(lower, "i smoke") {
		return &yes
	}
	return nil
}

func extractConditions(lower string) *bool {
	no := false
	yes := true
	if strings.Contains(lower, "no pre-existing") || strings.Contains(lower, "no preexisting") ||
		strings.Contains(lower, "no conditions") || strings.Contains(lower, "perfectly healthy") {
		return &no
	}
	if strings.Contains(lower, "pre-existing") || strings.Contains(lower, "preexisting") ||
		strings.Contains(lower, "diabetes") || strings.Contains(lower, "hypertension") ||
		strings.Contains(lower, "asthma") {
		return &yes
	}
	return nil
}
