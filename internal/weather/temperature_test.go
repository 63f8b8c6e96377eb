package weather

import (
	"math"
	"testing"
)

func TestDisplayTemperature(t *testing.T) {
	tests := []struct {
		name    string
		kelvin  float64
		expectF float64
	}{
		{"warm afternoon", 300.0, 80.33},
		{"mild", 288.15, 59.0},
		{"freezing point", 273.15, 32.0},
		{"zero fahrenheit rounds to zero", 255.372, 0},
		{"absolute zero", 0, -459.67},
		{"hot", 310.928, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayTemperature(tt.kelvin)
			if math.Abs(got-tt.expectF) > 1e-9 {
				t.Fatalf("expected %.2f°F for %.3fK, got %v", tt.expectF, tt.kelvin, got)
			}
		})
	}
}

func TestDisplayTemperatureRoundsToTwoDecimals(t *testing.T) {
	for k := 250.0; k < 320; k += 0.37 {
		got := DisplayTemperature(k)
		scaled := got * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			t.Fatalf("expected at most two decimals for %.2fK, got %v", k, got)
		}
		if math.Abs(got-KelvinToFahrenheit(k)) > 0.005+1e-9 {
			t.Fatalf("rounded value %v too far from %v", got, KelvinToFahrenheit(k))
		}
	}
}
