package cells

// State names an HTM cell state.
type State string

const (
	Inactive           State = "inactive"
	WithinActiveColumn State = "withinActiveColumn"
	Active             State = "active"
	CorrectlyPredicted State = "correctlyPredicted"
	PredictiveActive   State = "predictiveActive"
	Predictive         State = "predictive"
	WronglyPredicted   State = "wronglyPredicted"
	Input              State = "input"
)

// StateInfo describes how a state is drawn.
type StateInfo struct {
	State       State
	Color       Color
	Description string
}

// States is the HTM cell-state table, in display order.
var States = []StateInfo{
	{Inactive, MustColor("#FFFEEE"), "cell is inactive"},
	{WithinActiveColumn, MustColor("yellow"), "cell is inactive, but within a currently active column"},
	{Active, MustColor("orange"), "cell is active, but was not predicted last step"},
	{CorrectlyPredicted, MustColor("limegreen"), "cell is active and was correctly predicted last step"},
	{PredictiveActive, MustColor("indigo"), "cell is active and predictive"},
	{Predictive, MustColor("blue"), "cell is predicted to be active on the next time step"},
	{WronglyPredicted, MustColor("red"), "cell was predicted to be active, but was not"},
	{Input, MustColor("green"), "input bit is on"},
}

// StateColors returns States as a lookup table.
func StateColors() ColorTable {
	t := make(ColorTable, len(States))
	for _, s := range States {
		t[string(s.State)] = s.Color
	}
	return t
}

// LookupState returns the table entry for s.
func LookupState(s State) (StateInfo, error) {
	for _, info := range States {
		if info.State == s {
			return info, nil
		}
	}
	known := make([]string, len(States))
	for i, info := range States {
		known[i] = string(info.State)
	}
	return StateInfo{}, &UnknownCellValueError{Value: string(s), Known: known}
}
