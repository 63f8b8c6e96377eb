package weather

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Wire shapes use pointers so that "present with a zero value" and "absent"
// can be told apart; required means present.
type wireResponse struct {
	Name    *string         `json:"name" validate:"required"`
	Weather []wireCondition `json:"weather" validate:"required,dive"`
	Main    *wireMain       `json:"main" validate:"required"`
}

type wireCondition struct {
	ID          *int    `json:"id" validate:"required"`
	Main        *string `json:"main" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Icon        *string `json:"icon" validate:"required"`
}

type wireMain struct {
	Temp      *float64 `json:"temp" validate:"required"`
	FeelsLike *float64 `json:"feels_like" validate:"required"`
	TempMin   *float64 `json:"temp_min" validate:"required"`
	TempMax   *float64 `json:"temp_max" validate:"required"`
	Pressure  *int     `json:"pressure" validate:"required"`
	Humidity  *int     `json:"humidity" validate:"required"`
}

// DecodeResponse decodes a provider current-weather body. Any missing field
// of the schema is an error.
func DecodeResponse(r io.Reader) (WeatherResponse, error) {
	var payload wireResponse
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return WeatherResponse{}, fmt.Errorf("decode body: %w", err)
	}
	if err := validate.Struct(payload); err != nil {
		return WeatherResponse{}, fmt.Errorf("incomplete body: %w", err)
	}

	resp := WeatherResponse{
		CityName:   *payload.Name,
		Conditions: make([]ConditionEntry, 0, len(payload.Weather)),
		Main: MainMetrics{
			Temp:      *payload.Main.Temp,
			FeelsLike: *payload.Main.FeelsLike,
			TempMin:   *payload.Main.TempMin,
			TempMax:   *payload.Main.TempMax,
			Pressure:  *payload.Main.Pressure,
			Humidity:  *payload.Main.Humidity,
		},
	}
	for _, w := range payload.Weather {
		resp.Conditions = append(resp.Conditions, ConditionEntry{
			ID:          *w.ID,
			Main:        *w.Main,
			Description: *w.Description,
			IconID:      *w.Icon,
		})
	}
	return resp, nil
}
