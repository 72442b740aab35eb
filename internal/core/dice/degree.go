package dice

// Degree classifies a pool result.
type Degree int

const (
	DegreeUnspecified Degree = iota
	DegreeCritical
	DegreeFull
	DegreePartial
	DegreeFailure
)

// Degrees lists every classified degree from best to worst.
var Degrees = []Degree{DegreeCritical, DegreeFull, DegreePartial, DegreeFailure}

func (d Degree) String() string {
	switch d {
	case DegreeUnspecified:
		return "Unspecified"
	case DegreeCritical:
		return "Critical"
	case DegreeFull:
		return "Full"
	case DegreePartial:
		return "Partial"
	case DegreeFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Valid reports whether d is one of the four classified degrees.
func (d Degree) Valid() bool {
	return d >= DegreeCritical && d <= DegreeFailure
}

// LabelKey is the catalog key for the degree's display label.
func (d Degree) LabelKey() string {
	switch d {
	case DegreeCritical:
		return "degree.critical"
	case DegreeFull:
		return "degree.full"
	case DegreePartial:
		return "degree.partial"
	case DegreeFailure:
		return "degree.failure"
	default:
		return ""
	}
}

// Success reports whether the degree is a Partial or better.
func (d Degree) Success() bool {
	return d == DegreeCritical || d == DegreeFull || d == DegreePartial
}

// DegreeFor maps a pool value and critical flag to a degree.
func DegreeFor(value int, critical bool) Degree {
	switch {
	case critical:
		return DegreeCritical
	case value >= 6:
		return DegreeFull
	case value >= 4:
		return DegreePartial
	default:
		return DegreeFailure
	}
}
