package insurance

// Type identifies an insurance product category.
type Type string

const (
	TypeUnknown  Type = ""
	TypeAuto     Type = "auto"
	TypeHealth   Type = "health"
	TypeLife     Type = "life"
	TypeBusiness Type = "business"
)

// Coverage identifies the auto coverage level.
type Coverage string

const (
	CoverageComprehensive Coverage = "comprehensive"
	CoverageThirdParty    Coverage = "third_party"
)

// PlanTier identifies the health plan level.
type PlanTier string

const (
	PlanBasic    PlanTier = "basic"
	PlanStandard PlanTier = "standard"
	PlanPremium  PlanTier = "premium"
)

// Parameters is the partial field set gathered across a conversation. Zero
// values mean "not yet provided"; Smoker and Conditions are tri-state because
// false is a meaningful answer.
type Parameters struct {
	Age            int      `json:"age,omitempty"`
	VehicleValue   int      `json:"vehicle_value,omitempty"`
	CoverageAmount int      `json:"coverage_amount,omitempty"`
	Location       string   `json:"location,omitempty"`
	Coverage       Coverage `json:"coverage,omitempty"`
	PlanType       PlanTier `json:"plan_type,omitempty"`
	FamilySize     int      `json:"family_size,omitempty"`
	Smoker         *bool    `json:"smoker,omitempty"`
	Conditions     *bool    `json:"conditions,omitempty"`
	DrivingHistory string   `json:"driving_history,omitempty"` // "clean" or "accidents"
	SecurityFitted bool     `json:"security_fitted,omitempty"`
	BusinessType   string   `json:"business_type,omitempty"`
	EmployeeCount  int      `json:"employee_count,omitempty"`
	PropertyValue  int      `json:"property_value,omitempty"`
	AnnualRevenue  int      `json:"annual_revenue,omitempty"`
}

// Merge overlays override onto base, field by field. Fields set in override
// win; everything else keeps the base value. Callers pass history-derived
// parameters as base and current-message parameters as override so the
// current turn takes precedence.
func Merge(base, override Parameters) Parameters {
	out := base
	if override.Age != 0 {
		out.Age = override.Age
	}
	if override.VehicleValue != 0 {
		out.VehicleValue = override.VehicleValue
	}
	if override.CoverageAmount != 0 {
		out.CoverageAmount = override.CoverageAmount
	}
	if override.Location != "" {
		out.Location = override.Location
	}
	if override.Coverage != "" {
		out.Coverage = override.Coverage
	}
	if override.PlanType != "" {
		out.PlanType = override.PlanType
	}
	if override.FamilySize != 0 {
		out.FamilySize = override.FamilySize
	}
	if override.Smoker != nil {
		out.Smoker = override.Smoker
	}
	if override.Conditions != nil {
		out.Conditions = override.Conditions
	}
	if override.DrivingHistory != "" {
		out.DrivingHistory = override.DrivingHistory
	}
	if override.SecurityFitted {
		out.SecurityFitted = true
	}
	if override.BusinessType != "" {
		out.BusinessType = override.BusinessType
	}
	if override.EmployeeCount != 0 {
		out.EmployeeCount = override.EmployeeCount
	}
	if override.PropertyValue != 0 {
		out.PropertyValue = override.PropertyValue
	}
	if override.AnnualRevenue != 0 {
		out.AnnualRevenue = override.AnnualRevenue
	}
	return out
}
