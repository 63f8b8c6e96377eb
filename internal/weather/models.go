package weather

import (
	"strings"

	"github.com/i474232898/weather-search/internal/common"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// LastSearchKey is the store key holding the last successfully searched city.
const LastSearchKey = "userLastSearch"

// WeatherQuery is the input of a single user-initiated lookup.
type WeatherQuery struct {
	CityName string `json:"city" validate:"max=200"`
}

// WeatherResponse is the decoded current-weather payload of the provider.
// Field names follow the provider's wire schema so that the value can be
// re-encoded and decoded again without loss.
type WeatherResponse struct {
	CityName   string           `json:"name"`
	Conditions []ConditionEntry `json:"weather"`
	Main       MainMetrics      `json:"main"`
}

// ConditionEntry is one element of the provider's "weather" array.
type ConditionEntry struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	IconID      string `json:"icon"`
}

// MainMetrics holds the provider's "main" block. Temperatures are Kelvin,
// pressure is hPa and humidity is a percentage, exactly as received.
type MainMetrics struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// PrimaryCondition returns the first condition entry, which is the only one
// used for display.
func (r WeatherResponse) PrimaryCondition() (ConditionEntry, bool) {
	if len(r.Conditions) == 0 {
		return ConditionEntry{}, false
	}
	return r.Conditions[0], true
}

// Condition maps the provider's condition group onto a normalized Condition,
// falling back to the free-text description.
func (c ConditionEntry) Condition() Condition {
	switch c.Main {
	case "Clear":
		return ConditionClear
	case "Clouds":
		return ConditionCloudy
	case "Rain", "Drizzle":
		return ConditionRain
	case "Snow":
		return ConditionSnow
	case "Thunderstorm", "Squall", "Tornado":
		return ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke", "Dust", "Sand", "Ash":
		return ConditionMist
	}

	desc := strings.ToLower(c.Description)
	switch {
	case desc == "":
		return ConditionUnknown
	case common.HasAny(desc, "thunder", "storm"):
		return ConditionStorm
	case common.HasAny(desc, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAny(desc, "snow", "sleet"):
		return ConditionSnow
	case common.HasAny(desc, "mist", "fog", "haze"):
		return ConditionMist
	case common.HasAny(desc, "cloud"):
		return ConditionCloudy
	case common.HasAny(desc, "clear", "sunny"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
