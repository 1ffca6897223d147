package utils

import "fmt"

// CalculateBMI takes height in centimeters and weight in kilograms, the
// units the onboarding form collects.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm < 50 || heightCm > 250 {
		return 0, fmt.Errorf("implausible height %.0fcm", heightCm)
	}
	if weightKg < 10 || weightKg > 400 {
		return 0, fmt.Errorf("implausible weight %.0fkg", weightKg)
	}

	m := heightCm / 100
	return weightKg / (m * m), nil
}

// WHO bands, upper bounds exclusive.
var bmiBands = []struct {
	upTo  float64
	label string
}{
	{18.5, "Underweight"},
	{25, "Normal weight"},
	{30, "Overweight"},
	{35, "Obesity class I"},
	{40, "Obesity class II"},
}

func BMICategory(bmi float64) string {
	for _, band := range bmiBands {
		if bmi < band.upTo {
			return band.label
		}
	}
	return "Obesity class III"
}
