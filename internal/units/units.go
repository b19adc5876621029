// Package units holds the pure conversion functions used when turning raw
// upstream measurements into display values.
package units

import (
	"math"
	"strconv"
	"strings"
)

// CelsiusToFahrenheit converts a temperature in degrees Celsius to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return 1.8*c + 32
}

// FahrenheitToCelsius converts a temperature in degrees Fahrenheit to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// CelsiusToKelvin converts a temperature in degrees Celsius to Kelvin.
func CelsiusToKelvin(c float64) float64 {
	return c + 273.15
}

// KilometersPerHour converts a speed in meters per second to km/h.
func KilometersPerHour(ms float64) float64 {
	return ms * 3600 / 1000
}

// Upper bounds (km/h) for Beaufort numbers 0..12. The final 1000 entry is a
// sentinel so the loop terminates; anything past 117 km/h is hurricane force.
var beaufortThresholds = [...]float64{1, 5, 11, 19, 28, 38, 49, 61, 74, 88, 102, 117, 1000}

// MetersPerSecondToBeaufort converts a wind speed in m/s to a Beaufort number
// in the range 0..12.
func MetersPerSecondToBeaufort(ms float64) int {
	kmh := KilometersPerHour(ms)
	for i, limit := range beaufortThresholds {
		if limit > kmh {
			return i
		}
	}
	return 12
}

var compassLabels = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// DegreesToCompass maps a wind direction in degrees to one of the 16 compass
// point labels. Bins are 22.5 degrees wide, lower-bound exclusive and
// upper-bound inclusive; "N" covers the wraparound (348.75, 360] and [0, 11.25].
func DegreesToCompass(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}

	if deg <= 11.25 || deg > 348.75 {
		return "N"
	}

	lower := 11.25
	for i := 1; i < len(compassLabels); i++ {
		upper := lower + 22.5
		if deg > lower && deg <= upper {
			return compassLabels[i]
		}
		lower = upper
	}
	return "N"
}

// RoundForDisplay formats a value with either zero or one decimal place.
// The decimal separator is substituted for presentation only.
func RoundForDisplay(v float64, roundToInteger bool, decimalSeparator string) string {
	decimals := 1
	if roundToInteger {
		decimals = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if decimalSeparator != "" && decimalSeparator != "." {
		s = strings.Replace(s, ".", decimalSeparator, 1)
	}
	return s
}
