package models

// Closed expense category vocabulary. Labels that match nothing are filed
// under CategoryOther with the raw label preserved in the description.
const (
	CategoryHVAC          = "HVAC"
	CategoryPlumbing      = "Plumbing"
	CategoryElectrical    = "Electrical"
	CategoryRoofing       = "Roofing"
	CategoryAppliance     = "Appliance"
	CategoryLandscaping   = "Landscaping"
	CategoryPestControl   = "Pest Control"
	CategoryGeneralRepair = "General Repair"
	CategoryManagementFee = "Management Fee"
	CategoryOther         = "Other"
)

// AllCategories lists the closed vocabulary in display order.
var AllCategories = []string{
	CategoryHVAC,
	CategoryPlumbing,
	CategoryElectrical,
	CategoryRoofing,
	CategoryAppliance,
	CategoryLandscaping,
	CategoryPestControl,
	CategoryGeneralRepair,
	CategoryManagementFee,
	CategoryOther,
}

// IsKnownCategory reports whether name is part of the closed vocabulary.
func IsKnownCategory(name string) bool {
	for _, c := range AllCategories {
		if c == name {
			return true
		}
	}
	return false
}

// CategoryConfig is one category's keyword configuration as loaded from
// categories.yaml.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}
