// Package stats derives the stat cards shown for each measurement type: the current
// value, the highest and the lowest, each with a percent change against a baseline.
//
// Everything here is a pure function of its input. Callers recompute whenever their
// readings change; nothing is cached between calls.
package stats

import (
	"fmt"
	"math"
	"math/big"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

// Description is the description of every derived stat.
const Description = "Since last record"

// Kind identifies which of the three stats a DerivedStat is.
type Kind string

const (
	Current Kind = "current"
	Highest Kind = "highest"
	Lowest  Kind = "lowest"
)

// Icon tags for the highest and lowest stats. The current stat uses the per-type
// icon from measurement.Type.Icon.
const (
	IconUp   = "up"
	IconDown = "down"
)

// DerivedStat is one stat card.
type DerivedStat struct {
	Kind            Kind   `json:"kind"`
	Title           string `json:"title"`
	Value           string `json:"value"`
	IncreasePercent string `json:"increase"`
	Description     string `json:"description"`
	IconTag         string `json:"icon"`
}

// Compute derives the current, highest and lowest stats for type t, in that order.
//
// Readings without a usable value for t are skipped. The result is empty if no
// reading has one; otherwise it has exactly three elements.
func Compute(readings []measurement.Reading, t measurement.Type) []DerivedStat {
	values := measurement.Values(readings, t)
	if len(values) == 0 {
		return nil
	}

	current := values[len(values)-1]
	previous := current
	if len(values) > 1 {
		previous = values[len(values)-2]
	}

	highest, lowest := current, current
	for _, v := range values {
		if v > highest {
			highest = v
		}
		if v < lowest {
			lowest = v
		}
	}

	// Casers carry state, so each call gets its own.
	name := cases.Title(language.English).String(t.String())
	return []DerivedStat{
		{
			Kind:            Current,
			Title:           fmt.Sprintf("Current %s", name),
			Value:           measurement.FormatValue(current, t),
			IncreasePercent: PercentChange(current, previous),
			Description:     Description,
			IconTag:         t.Icon(),
		},
		{
			Kind:            Highest,
			Title:           fmt.Sprintf("Highest %s Today", name),
			Value:           measurement.FormatValue(highest, t),
			IncreasePercent: PercentChange(highest, current),
			Description:     Description,
			IconTag:         IconUp,
		},
		{
			Kind:            Lowest,
			Title:           fmt.Sprintf("Lowest %s Today", name),
			Value:           measurement.FormatValue(lowest, t),
			IncreasePercent: PercentChange(lowest, current),
			Description:     Description,
			IconTag:         IconDown,
		},
	}
}

// ComputeAll runs Compute for every measurement type. Types with no usable values
// map to an empty slice.
func ComputeAll(readings []measurement.Reading) map[measurement.Type][]DerivedStat {
	all := make(map[measurement.Type][]DerivedStat)
	for _, t := range measurement.Types() {
		all[t] = Compute(readings, t)
	}
	return all
}

// PercentChange formats the relative change of x against baseline b, e.g. "+13.6%"
// or "-9.1%". A zero baseline or no change at all gives "0%".
func PercentChange(x, b float64) string {
	if b == 0 || x == b {
		return "0%"
	}

	diff := (x - b) / b * 100
	sign := ""
	if diff >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, roundTenths(diff))
}

// roundTenths rounds x to one decimal place with ties away from zero. It works on the
// exact value of x, since x*10 in float64 can itself round onto or off a tie.
func roundTenths(x float64) float64 {
	y := new(big.Float).SetPrec(128).SetFloat64(math.Abs(x))
	y.Mul(y, big.NewFloat(10))
	y.Add(y, big.NewFloat(0.5))

	n, _ := y.Int(nil)
	r, _ := new(big.Float).SetInt(n).Float64()
	return math.Copysign(r/10, x)
}
