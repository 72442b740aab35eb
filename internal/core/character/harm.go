package character

import "strings"

// Harm severities.
const (
	HarmLesser   = 1
	HarmModerate = 2
	HarmSevere   = 3
	HarmFatal    = 4
)

// HarmLabelKey is the catalog key for a severity's display label.
func HarmLabelKey(severity int) string {
	name := HarmName(severity)
	if name == "" {
		return ""
	}
	return "harm." + strings.ToLower(name)
}

// HarmName names a severity, or returns "" when it is out of range.
func HarmName(severity int) string {
	switch severity {
	case HarmLesser:
		return "Lesser"
	case HarmModerate:
		return "Moderate"
	case HarmSevere:
		return "Severe"
	case HarmFatal:
		return "Fatal"
	default:
		return ""
	}
}

// Harm is one filled harm slot.
type Harm struct {
	Severity    int
	Description string
}

// Capacity is the number of slots per harm tier.
type Capacity struct {
	Lesser   int
	Moderate int
	Severe   int
	Fatal    int
}

// DefaultCapacity is two lesser, two moderate, one severe and one fatal slot.
var DefaultCapacity = Capacity{Lesser: 2, Moderate: 2, Severe: 1, Fatal: 1}

// For returns the slot count for severity.
func (c Capacity) For(severity int) int {
	switch severity {
	case HarmLesser:
		return c.Lesser
	case HarmModerate:
		return c.Moderate
	case HarmSevere:
		return c.Severe
	case HarmFatal:
		return c.Fatal
	default:
		return 0
	}
}

// Total is the number of slots across all tiers.
func (c Capacity) Total() int {
	return c.Lesser + c.Moderate + c.Severe + c.Fatal
}

// Valid reports whether every tier has at least one slot.
func (c Capacity) Valid() bool {
	return c.Lesser > 0 && c.Moderate > 0 && c.Severe > 0 && c.Fatal > 0
}

// HarmResult reports where harm landed.
type HarmResult struct {
	Requested  int
	Severity   int
	Upgraded   bool
	SlotFilled bool
	Fatal      bool
}

// HealResult reports a recovery step.
type HealResult struct {
	Removed    int
	Downgraded int
}

// placeHarm finds the lowest tier at or above severity with an open slot.
// It returns 0 when the harm would spill past the fatal tier.
func placeHarm(track []Harm, capacity Capacity, severity int) int {
	for tier := severity; tier <= HarmFatal; tier++ {
		if countSeverity(track, tier) < capacity.For(tier) {
			return tier
		}
	}
	return 0
}

func countSeverity(track []Harm, severity int) int {
	n := 0
	for _, h := range track {
		if h.Severity == severity {
			n++
		}
	}
	return n
}
