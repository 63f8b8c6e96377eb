// Package session is the consumer side of a weather lookup: it turns
// controller states into what a search screen and a detail screen need,
// consumes each Success exactly once and remembers the last searched city.
package session

import (
	"context"
	"errors"
	"log"

	"github.com/i474232898/weather-search/internal/common"
	"github.com/i474232898/weather-search/internal/store"
	"github.com/i474232898/weather-search/internal/weather"
)

// ErrorNotice is the user-facing text shown for any failed lookup.
const ErrorNotice = "Error getting weather data"

// NavigateDetail is the one-shot navigation target emitted after a Success.
const NavigateDetail = "detail"

// Lookup is the part of the controller a Session drives.
type Lookup interface {
	Submit(cityName string) string
	State() weather.ResultState
	Consume() (weather.ResultState, bool)
	Result() (weather.Result, bool)
}

// View is what the search screen renders for the current state.
type View struct {
	Status       weather.Status `json:"status"`
	RequestID    string         `json:"requestId,omitempty"`
	ShowProgress bool           `json:"showProgress"`
	Message      string         `json:"message,omitempty"`
	Notice       string         `json:"notice,omitempty"`
	Navigate     string         `json:"navigate,omitempty"`
	Detail       *Detail        `json:"detail,omitempty"`
}

// Detail is what the detail screen renders.
type Detail struct {
	City         string              `json:"city"`
	TemperatureF float64             `json:"temperatureF"`
	FeelsLikeF   float64             `json:"feelsLikeF"`
	TempMinF     float64             `json:"tempMinF"`
	TempMaxF     float64             `json:"tempMaxF"`
	Humidity     int                 `json:"humidityPercent"`
	Pressure     int                 `json:"pressureHpa"`
	Description  string              `json:"description,omitempty"`
	Condition    weather.Condition   `json:"condition"`
	IconURL      string              `json:"iconUrl,omitempty"`
	Main         weather.MainMetrics `json:"main"`
}

// Session wires a Lookup to the last-search store.
type Session struct {
	lookup      Lookup
	store       weather.Store
	iconBaseURL string
}

func New(lookup Lookup, st weather.Store, iconBaseURL string) *Session {
	return &Session{lookup: lookup, store: st, iconBaseURL: iconBaseURL}
}

// LastCity returns the last successfully searched city, or "" if none.
func (s *Session) LastCity(ctx context.Context) (string, error) {
	city, err := s.store.Get(ctx, weather.LastSearchKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	return city, err
}

// Search submits a lookup and returns its request id.
func (s *Session) Search(city string) string {
	return s.lookup.Submit(city)
}

// Poll maps the current state to a View. A Success is consumed: the first
// Poll that sees it persists the city and navigates, later Polls see Idle.
func (s *Session) Poll(ctx context.Context) View {
	if st, ok := s.lookup.Consume(); ok {
		if err := s.store.Set(ctx, weather.LastSearchKey, st.City); err != nil {
			log.Printf("ERROR: session: failed to save last search %q: %v", st.City, err)
		}
		v := View{Status: weather.StatusSuccess, RequestID: st.RequestID, Navigate: NavigateDetail}
		if d, ok := s.Detail(); ok {
			v.Detail = &d
		}
		return v
	}

	st := s.lookup.State()
	v := View{Status: st.Status, RequestID: st.RequestID}
	switch st.Status {
	case weather.StatusLoading:
		v.ShowProgress = true
	case weather.StatusError:
		v.Message = st.Message
		v.Notice = ErrorNotice
	}
	return v
}

// Detail builds the detail view from the latest successful result.
func (s *Session) Detail() (Detail, bool) {
	res, ok := s.lookup.Result()
	if !ok {
		return Detail{}, false
	}
	m := res.Response.Main
	d := Detail{
		City:         res.Response.CityName,
		TemperatureF: res.DisplayTemperature,
		FeelsLikeF:   weather.DisplayTemperature(m.FeelsLike),
		TempMinF:     weather.DisplayTemperature(m.TempMin),
		TempMaxF:     weather.DisplayTemperature(m.TempMax),
		Humidity:     m.Humidity,
		Pressure:     m.Pressure,
		Condition:    weather.ConditionUnknown,
		Main:         m,
	}
	if c, ok := res.Response.PrimaryCondition(); ok {
		d.Description = c.Description
		d.Condition = c.Condition()
		d.IconURL = common.IconURL(s.iconBaseURL, c.IconID)
	}
	return d, true
}

// Refresh re-submits the last searched city. ok is false when no city has
// been stored yet.
func (s *Session) Refresh(ctx context.Context) (requestID string, ok bool, err error) {
	city, err := s.LastCity(ctx)
	if err != nil {
		return "", false, err
	}
	if city == "" {
		return "", false, nil
	}
	return s.lookup.Submit(city), true, nil
}
