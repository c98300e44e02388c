// Package settings defines the application settings blob and its hard-coded defaults.
package settings

// CurrentVersion is bumped whenever a field is added to AppSettings.
const CurrentVersion = 2

// AppSettings is the user's settings blob. Stored blobs are merged key by key over Defaults.
type AppSettings struct {
	Version         int           `json:"version" mapstructure:"version"`
	DisplayName     string        `json:"displayName" mapstructure:"displayName"`
	DefaultServings int           `json:"defaultServings" mapstructure:"defaultServings" validate:"gte=1,lte=50"`
	WeekStartDay    string        `json:"weekStartDay" mapstructure:"weekStartDay" validate:"oneof=monday sunday"`
	AIPreferences   AIPreferences `json:"aiPreferences" mapstructure:"aiPreferences"`
	Shopping        ShoppingPrefs `json:"shopping" mapstructure:"shopping"`
}

// AIPreferences steer recipe and shopping list generation.
type AIPreferences struct {
	Diet              []string `json:"diet" mapstructure:"diet"`
	Allergies         []string `json:"allergies" mapstructure:"allergies"`
	DislikedFoods     []string `json:"dislikedFoods" mapstructure:"dislikedFoods"`
	PreferredCuisines []string `json:"preferredCuisines" mapstructure:"preferredCuisines"`
	SkillLevel        string   `json:"skillLevel" mapstructure:"skillLevel"`
	MaxPrepMinutes    int      `json:"maxPrepMinutes" mapstructure:"maxPrepMinutes" validate:"gte=0"`
	PreferPantryItems bool     `json:"preferPantryItems" mapstructure:"preferPantryItems"`
}

// ShoppingPrefs were added in version 2.
type ShoppingPrefs struct {
	MoveCheckedToPantry bool `json:"moveCheckedToPantry" mapstructure:"moveCheckedToPantry"`
	GroupByCategory     bool `json:"groupByCategory" mapstructure:"groupByCategory"`
}

// Defaults returns a fresh copy of the hard-coded defaults.
func Defaults() AppSettings {
	return AppSettings{
		Version:         CurrentVersion,
		DisplayName:     "",
		DefaultServings: 2,
		WeekStartDay:    "monday",
		AIPreferences: AIPreferences{
			Diet:              []string{},
			Allergies:         []string{},
			DislikedFoods:     []string{},
			PreferredCuisines: []string{},
			SkillLevel:        "mittel",
			MaxPrepMinutes:    45,
			PreferPantryItems: true,
		},
		Shopping: ShoppingPrefs{
			MoveCheckedToPantry: true,
			GroupByCategory:     true,
		},
	}
}
