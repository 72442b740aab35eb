package scenario

// scenarioState maps scenario names to table identifiers.
type scenarioState struct {
	characters map[string]string
	clocks     map[string]string
}
