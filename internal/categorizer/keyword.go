package categorizer

import "rentops/owner-ledger/internal/models"

// keywordEntry binds one uppercase keyword to a category. Order matters:
// more specific keywords come before generic ones, so "AIR CONDITION"
// resolves before "REPAIR".
type keywordEntry struct {
	keyword  string
	category string
}

// builtinKeywords is the default keyword table, ordered most specific
// first. A categories.yaml file can extend or override it.
var builtinKeywords = []keywordEntry{
	// Plumbing
	{"PLUMB", models.CategoryPlumbing},
	{"PIPE", models.CategoryPlumbing},
	{"DRAIN", models.CategoryPlumbing},
	{"WATER HEATER", models.CategoryPlumbing},
	{"FAUCET", models.CategoryPlumbing},
	{"TOILET", models.CategoryPlumbing},

	// HVAC
	{"HVAC", models.CategoryHVAC},
	{"AIR CONDITION", models.CategoryHVAC},
	{"A/C", models.CategoryHVAC},
	{"FURNACE", models.CategoryHVAC},
	{"HEAT", models.CategoryHVAC},
	{"THERMOSTAT", models.CategoryHVAC},

	// Electrical
	{"ELECTRIC", models.CategoryElectrical},
	{"WIRING", models.CategoryElectrical},
	{"BREAKER", models.CategoryElectrical},
	{"OUTLET", models.CategoryElectrical},

	// Roofing
	{"ROOF", models.CategoryRoofing},
	{"GUTTER", models.CategoryRoofing},
	{"SHINGLE", models.CategoryRoofing},

	// Appliances
	{"APPLIANCE", models.CategoryAppliance},
	{"REFRIGERATOR", models.CategoryAppliance},
	{"DISHWASHER", models.CategoryAppliance},
	{"STOVE", models.CategoryAppliance},
	{"OVEN", models.CategoryAppliance},
	{"WASHER", models.CategoryAppliance},
	{"DRYER", models.CategoryAppliance},

	// Landscaping
	{"LANDSCAP", models.CategoryLandscaping},
	{"LAWN", models.CategoryLandscaping},
	{"TREE", models.CategoryLandscaping},
	{"MOWING", models.CategoryLandscaping},
	{"YARD", models.CategoryLandscaping},

	// Pest control
	{"PEST", models.CategoryPestControl},
	{"TERMITE", models.CategoryPestControl},
	{"EXTERMINAT", models.CategoryPestControl},
	{"RODENT", models.CategoryPestControl},

	// Management fees
	{"MANAGEMENT FEE", models.CategoryManagementFee},
	{"MGMT FEE", models.CategoryManagementFee},
	{"MANAGEMENT", models.CategoryManagementFee},
	{"LEASING FEE", models.CategoryManagementFee},

	// General repairs, last so the specific trades win
	{"GENERAL REPAIR", models.CategoryGeneralRepair},
	{"HANDYMAN", models.CategoryGeneralRepair},
	{"MAINTENANCE", models.CategoryGeneralRepair},
	{"REPAIR", models.CategoryGeneralRepair},
	{"PAINT", models.CategoryGeneralRepair},
	{"DRYWALL", models.CategoryGeneralRepair},
	{"LOCK", models.CategoryGeneralRepair},
}
