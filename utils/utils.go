package utils

import "math"

const (
	EPSILON = 1e-3 // Infinite small value for float comparison
)

// FloatRound rounds a float64 to a specified number of decimal places.
// e.g. FloatRound(3.14159, 2) => 3.14
func FloatRound(x float64, precision int) float64 {
	pow := math.Pow10(precision)
	return math.Round(x*pow) / pow
}
