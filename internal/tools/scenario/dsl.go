package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is an ordered list of table steps built by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scenario instruction with its Lua arguments converted to Go
// values.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it builds.
// Unnamed scenarios take the file's base name.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runScenarioChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenario runs Lua source and returns the Scenario it builds.
func LoadScenario(source string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return runScenarioChunk(state)
}

func newLuaState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)
	return state
}

func runScenarioChunk(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")

	state.NewTable()
	lua.SetFunctions(state, consequenceHelpers, 0)
	state.SetGlobal("Consequences")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

var consequenceHelpers = []lua.RegistryFunction{
	{Name: "harm", Function: harmConsequenceHelper},
	{Name: "of", Function: consequenceHelper},
}

func harmConsequenceHelper(state *lua.State) int {
	severity := lua.CheckInteger(state, 1)
	state.NewTable()
	state.PushString("harm")
	state.SetField(-2, "kind")
	state.PushInteger(severity)
	state.SetField(-2, "severity")
	return 1
}

func consequenceHelper(state *lua.State) int {
	kind := lua.CheckString(state, 1)
	state.NewTable()
	state.PushString(kind)
	state.SetField(-2, "kind")
	return 1
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "dice", Function: scenarioDice},
	{Name: "character", Function: scenarioCharacter},
	{Name: "action_roll", Function: scenarioActionRoll},
	{Name: "resist", Function: scenarioResist},
	{Name: "stress", Function: scenarioStress},
	{Name: "clear_stress", Function: scenarioClearStress},
	{Name: "harm", Function: scenarioHarm},
	{Name: "heal", Function: scenarioHeal},
	{Name: "consequence", Function: scenarioConsequence},
	{Name: "clock", Function: scenarioClock},
	{Name: "fill", Function: scenarioFill},
	{Name: "tick", Function: scenarioTick},
	{Name: "reset", Function: scenarioReset},
	{Name: "expect_character", Function: scenarioExpectCharacter},
	{Name: "expect_clock", Function: scenarioExpectClock},
	{Name: "expect_journal", Function: scenarioExpectJournal},
}

// Methods return the scenario so calls can be chained.

func scenarioDice(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	values, ok := tableToGo(state, 2).([]any)
	if !ok {
		lua.ArgumentError(state, 2, "list of die faces expected")
		return 0
	}
	appendStep(scenario, "dice", map[string]any{"values": values})
	return returnScenario(state)
}

func scenarioCharacter(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["name"] = name
	appendStep(scenario, "character", data)
	return returnScenario(state)
}

func scenarioActionRoll(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "action_roll", tableToMap(state, 2))
	return returnScenario(state)
}

func scenarioResist(state *lua.State) int {
	return namedStep(state, "resist")
}

func scenarioStress(state *lua.State) int {
	return namedAmountStep(state, "stress")
}

func scenarioClearStress(state *lua.State) int {
	return namedAmountStep(state, "clear_stress")
}

func scenarioHarm(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	severity := lua.CheckInteger(state, 3)
	data := optionalTable(state, 4)
	data["name"] = name
	data["severity"] = severity
	appendStep(scenario, "harm", data)
	return returnScenario(state)
}

func scenarioHeal(state *lua.State) int {
	return namedStep(state, "heal")
}

func scenarioConsequence(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "consequence", tableToMap(state, 2))
	return returnScenario(state)
}

func scenarioClock(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	segments := lua.CheckInteger(state, 3)
	data := optionalTable(state, 4)
	data["name"] = name
	data["segments"] = segments
	appendStep(scenario, "clock", data)
	return returnScenario(state)
}

func scenarioFill(state *lua.State) int {
	return namedAmountStep(state, "fill")
}

func scenarioTick(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	size := lua.CheckInteger(state, 3)
	data := optionalTable(state, 4)
	data["name"] = name
	data["dice"] = size
	appendStep(scenario, "tick", data)
	return returnScenario(state)
}

func scenarioReset(state *lua.State) int {
	return namedStep(state, "reset")
}

func scenarioExpectCharacter(state *lua.State) int {
	return namedStep(state, "expect_character")
}

func scenarioExpectClock(state *lua.State) int {
	return namedStep(state, "expect_clock")
}

func scenarioExpectJournal(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_journal", optionalTable(state, 2))
	return returnScenario(state)
}

// namedStep handles scene:kind(name, opts).
func namedStep(state *lua.State, kind string) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["name"] = name
	appendStep(scenario, kind, data)
	return returnScenario(state)
}

// namedAmountStep handles scene:kind(name, amount, opts).
func namedAmountStep(state *lua.State, kind string) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	amount := lua.CheckInteger(state, 3)
	data := optionalTable(state, 4)
	data["name"] = name
	data["amount"] = amount
	appendStep(scenario, kind, data)
	return returnScenario(state)
}

func returnScenario(state *lua.State) int {
	state.PushValue(1)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if scenario == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts a sequence table to []any and any other table to a map.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
