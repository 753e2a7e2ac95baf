package funcs

import (
	"fmt"
	"math"
	"strings"
)

type unitPair struct {
	from, to string
}

var unitConversions = map[unitPair]func(float64) float64{
	{"miles", "km"}:           func(v float64) float64 { return v * 1.60934 },
	{"km", "miles"}:           func(v float64) float64 { return v / 1.60934 },
	{"pounds", "kg"}:          func(v float64) float64 { return v * 0.453592 },
	{"kg", "pounds"}:          func(v float64) float64 { return v / 0.453592 },
	{"fahrenheit", "celsius"}: func(v float64) float64 { return (v - 32) * 5 / 9 },
	{"celsius", "fahrenheit"}: func(v float64) float64 { return v*9/5 + 32 },
	{"feet", "meters"}:        func(v float64) float64 { return v * 0.3048 },
	{"meters", "feet"}:        func(v float64) float64 { return v / 0.3048 },
	{"inches", "cm"}:          func(v float64) float64 { return v * 2.54 },
	{"cm", "inches"}:          func(v float64) float64 { return v / 2.54 },
	{"gallons", "liters"}:     func(v float64) float64 { return v * 3.78541 },
	{"liters", "gallons"}:     func(v float64) float64 { return v / 3.78541 },
	{"ounces", "grams"}:       func(v float64) float64 { return v * 28.3495 },
	{"grams", "ounces"}:       func(v float64) float64 { return v / 28.3495 },
}

func convertUnits(value float64, fromUnit, toUnit string) (map[string]any, error) {
	conv, ok := unitConversions[unitPair{strings.ToLower(fromUnit), strings.ToLower(toUnit)}]
	if !ok {
		return nil, fmt.Errorf("cannot convert from %s to %s", fromUnit, toUnit)
	}
	result := math.Round(conv(value)*10000) / 10000
	return map[string]any{
		"value":  value,
		"from":   fromUnit,
		"to":     toUnit,
		"result": result,
	}, nil
}
