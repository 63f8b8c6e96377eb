package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-search/internal/weather"
)

const londonBody = `{"weather":[{"id":800,"main":"Clear","description":"clear sky","icon":"01d"}],` +
	`"main":{"temp":288.15,"feels_like":287.6,"temp_min":286.9,"temp_max":289.4,"pressure":1012,"humidity":72},"name":"London"}`

func newProvider(t *testing.T, handler http.HandlerFunc) *OpenWeatherClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenWeatherClient(srv.Client(), srv.URL, "data/2.5/weather", "test-key")
}

func TestOpenWeatherFetchSuccess(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("expected path /data/2.5/weather, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "London" {
			t.Errorf("expected q=London, got %s", got)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("expected appid=test-key, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(londonBody))
	})

	resp, err := p.Fetch(context.Background(), "London")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.CityName != "London" || resp.Main.Humidity != 72 || resp.Main.Pressure != 1012 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if c, _ := resp.PrimaryCondition(); c.Description != "clear sky" || c.IconID != "01d" {
		t.Fatalf("unexpected condition %+v", c)
	}
}

func TestOpenWeatherFetchSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := p.Fetch(context.Background(), "London"); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls.Load())
	}
}

func TestOpenWeatherFetchProviderFailure(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := p.Fetch(context.Background(), "Nonexistentville")
	if !errors.Is(err, weather.ErrProviderFailure) {
		t.Fatalf("expected provider failure, got %v", err)
	}
	var fe *weather.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *weather.FetchError, got %T", err)
	}
	if fe.StatusCode != http.StatusNotFound || fe.ProviderMessage != "city not found" || fe.City != "Nonexistentville" {
		t.Fatalf("unexpected fetch error %+v", fe)
	}
}

func TestOpenWeatherFetchEmptyCityPassesThrough(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.Query().Has("q") || r.URL.Query().Get("q") != "" {
			t.Errorf("expected empty q to be sent, got %q", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"cod":"400","message":"Nothing to geocode"}`))
	})

	_, err := p.Fetch(context.Background(), "")
	if weather.KindOf(err) != weather.ProviderFailure {
		t.Fatalf("expected provider failure for empty city, got %v", err)
	}
}

func TestOpenWeatherFetchDecodeFailure(t *testing.T) {
	tests := map[string]string{
		"not json":     `<html>oops</html>`,
		"missing main": `{"weather":[],"name":"London"}`,
		"truncated":    `{"weather":[],"main":{"temp":`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := p.Fetch(context.Background(), "London")
			if !errors.Is(err, weather.ErrDecodeFailure) {
				t.Fatalf("expected decode failure, got %v", err)
			}
		})
	}
}

func TestOpenWeatherFetchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewOpenWeatherClient(&http.Client{Timeout: 2 * time.Second}, url, "", "k")
	_, err := p.Fetch(context.Background(), "London")
	if !errors.Is(err, weather.ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	var fe *weather.FetchError
	if errors.As(err, &fe) && fe.Cause == "" {
		t.Fatalf("expected a transport cause to be recorded")
	}
}

func TestOpenWeatherFetchTimeoutIsTransport(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	p := NewOpenWeatherClient(&http.Client{Timeout: 50 * time.Millisecond}, srv.URL, "", "k")
	_, err := p.Fetch(context.Background(), "London")
	var fe *weather.FetchError
	if !errors.As(err, &fe) || fe.Kind != weather.TransportFailure {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if fe.Cause != "timeout" {
		t.Fatalf("expected timeout cause, got %q", fe.Cause)
	}
}

func TestOpenWeatherFetchThroughController(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "London":
			w.Write([]byte(londonBody))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		}
	})
	c := weather.NewController(p)

	c.Submit("London")
	c.Wait()
	res, ok := c.Result()
	if !ok || c.State().Status != weather.StatusSuccess {
		t.Fatalf("expected success, got %+v", c.State())
	}
	if res.DisplayTemperature != 59.0 {
		t.Fatalf("expected 59.0°F, got %v", res.DisplayTemperature)
	}

	c.Submit("Nonexistentville")
	c.Wait()
	if s := c.State(); s.Status != weather.StatusError || s.Message != "Unknown Error" {
		t.Fatalf("expected Error(\"Unknown Error\"), got %+v", s)
	}
}
