package neat

import (
	"math"
	"math/rand"
	"strings"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// parseBoolAttribute parses common string representations of booleans.
// Handles true/false, yes/no, on/off, 1/0, and random.
func parseBoolAttribute(valStr string) bool {
	valStr = strings.ToLower(strings.TrimSpace(valStr))
	if valStr == "true" || valStr == "yes" || valStr == "on" || valStr == "1" {
		return true
	}
	if valStr == "random" || valStr == "none" {
		return rand.Float64() < 0.5 // Randomize at initialization time if config says 'random'
	}
	return false
}

// Mean calculates the average of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return Sum(values) / float64(len(values))
}

// Sum calculates the sum of a slice of float64 values.
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// MaxFloat calculates the maximum value in a slice of float64 values.
// Returns negative infinity if the slice is empty.
func MaxFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	maxVal := values[0]
	for i := 1; i < len(values); i++ {
		if values[i] > maxVal {
			maxVal = values[i]
		}
	}
	return maxVal
}
