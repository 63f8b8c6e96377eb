package weather

import "math"

// KelvinToFahrenheit converts a provider temperature to Fahrenheit.
func KelvinToFahrenheit(k float64) float64 {
	return (k-273.15)*9/5 + 32
}

// DisplayTemperature is the Fahrenheit value shown to the user, rounded
// half up to two decimal places.
func DisplayTemperature(k float64) float64 {
	return round2(KelvinToFahrenheit(k))
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
