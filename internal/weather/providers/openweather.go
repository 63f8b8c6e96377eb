package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-search/internal/weather"
)

const (
	DefaultOpenWeatherBaseURL  = "https://api.openweathermap.org"
	DefaultOpenWeatherEndpoint = "data/2.5/weather"
)

// OpenWeatherClient implements weather.Client for the OpenWeatherMap
// "current weather" endpoint.
type OpenWeatherClient struct {
	name     string
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewOpenWeatherClient builds a client for <baseURL>/<endpoint>. Empty
// baseURL or endpoint fall back to the public OpenWeatherMap values.
func NewOpenWeatherClient(client *http.Client, baseURL, endpoint, apiKey string) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if endpoint == "" {
		endpoint = DefaultOpenWeatherEndpoint
	}
	return &OpenWeatherClient{
		name:     "openweathermap",
		apiKey:   apiKey,
		endpoint: strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(endpoint, "/"),
		client:   client,
	}
}

func (p *OpenWeatherClient) Name() string {
	return p.name
}

// Fetch issues one GET ?q={cityName}&appid={apiKey}. The city name is not
// validated here; the provider decides what it accepts.
func (p *OpenWeatherClient) Fetch(ctx context.Context, cityName string) (weather.WeatherResponse, error) {
	values := url.Values{}
	values.Set("q", cityName)
	values.Set("appid", p.apiKey)
	u := fmt.Sprintf("%s?%s", p.endpoint, values.Encode())

	resp, err := doRequest(ctx, p.client, http.MethodGet, u)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return weather.WeatherResponse{}, &weather.FetchError{
				Kind:            weather.ProviderFailure,
				City:            cityName,
				StatusCode:      se.code,
				ProviderMessage: se.message,
				Err:             err,
			}
		}
		return weather.WeatherResponse{}, &weather.FetchError{
			Kind:  weather.TransportFailure,
			City:  cityName,
			Cause: transportCause(err),
			Err:   err,
		}
	}
	defer resp.Body.Close()

	out, err := weather.DecodeResponse(resp.Body)
	if err != nil {
		return weather.WeatherResponse{}, &weather.FetchError{
			Kind: weather.DecodeFailure,
			City: cityName,
			Err:  err,
		}
	}
	return out, nil
}
