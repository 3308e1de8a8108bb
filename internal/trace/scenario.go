package trace

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bankcheck/internal/bank"
	"github.com/roach88/bankcheck/internal/itf"
)

// Scenario is a hand-written trace in YAML.
//
//	name: buy_then_sell
//	initial: {balances: {alice: 100}}
//	steps:
//	  - action: buy_investment_action
//	    picks: {buyer: alice, amount: 40}
//	    expect:
//	      state: {balances: {alice: 60}, investments: {0: {owner: alice, amount: 40}}, next_id: 1}
type Scenario struct {
	// Name identifies the scenario in reports.
	Name string `yaml:"name"`

	// Description is free text.
	Description string `yaml:"description,omitempty"`

	// Initial is the state of step 0.
	Initial StateSpec `yaml:"initial"`

	// Steps are applied in order after the initial state.
	Steps []ScenarioStep `yaml:"steps"`
}

// StateSpec is the YAML form of a bank state.
type StateSpec struct {
	Balances    map[string]int64         `yaml:"balances,omitempty"`
	Investments map[int64]InvestmentSpec `yaml:"investments,omitempty"`
	NextID      int64                    `yaml:"next_id,omitempty"`
}

// InvestmentSpec is the YAML form of a bank investment.
type InvestmentSpec struct {
	Owner  string `yaml:"owner"`
	Amount int64  `yaml:"amount"`
}

// ScenarioStep is one action with its picks and expected outcome.
type ScenarioStep struct {
	// Action is the trace tag, e.g. "deposit_action".
	Action string `yaml:"action"`

	// Picks are the action arguments. Strings and integers are accepted.
	Picks map[string]any `yaml:"picks,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// Expectation is the outcome of a step. A nil State means the state is
// expected to be unchanged from the previous step.
type Expectation struct {
	State *StateSpec `yaml:"state,omitempty"`
	Error string     `yaml:"error,omitempty"`
}

// State converts the scenario state to a bank.State.
func (s StateSpec) State() *bank.State {
	st := bank.NewState()
	for owner, amount := range s.Balances {
		st.Balances[owner] = amount
	}
	for id, inv := range s.Investments {
		st.Investments[id] = bank.Investment{Owner: inv.Owner, Amount: inv.Amount}
	}
	st.NextID = s.NextID
	return st
}

// LoadScenario reads and parses a scenario file. Unknown fields are
// rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario yaml: %w", err)
	}
	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

func validateScenario(sc *Scenario) error {
	if sc.Name == "" {
		return errors.New("name is required")
	}
	if len(sc.Steps) == 0 {
		return errors.New("at least one step is required")
	}
	for i, step := range sc.Steps {
		if step.Action == "" {
			return fmt.Errorf("steps[%d]: action is required", i)
		}
		for name, v := range step.Picks {
			if _, err := pickValue(v); err != nil {
				return fmt.Errorf("steps[%d].picks.%s: %w", i, name, err)
			}
		}
	}
	return nil
}

// Trace compiles the scenario into the step model shared with ITF traces.
// Step 0 is an init step carrying the initial state; picks become Some
// options and the expected error becomes an error option.
func (sc *Scenario) Trace() (*Trace, error) {
	t := &Trace{ID: sc.Name, Steps: make([]Step, 0, len(sc.Steps)+1)}

	expected := sc.Initial.State()
	t.Steps = append(t.Steps, Step{
		Index:  0,
		Action: bank.ActionInit.Tag(),
		Picks:  itf.Record{},
		State:  EncodeState(expected),
		Error:  None(),
	})

	for i, step := range sc.Steps {
		picks := make(itf.Record, len(step.Picks))
		for name, raw := range step.Picks {
			v, err := pickValue(raw)
			if err != nil {
				return nil, fmt.Errorf("steps[%d].picks.%s: %w", i, name, err)
			}
			picks[name] = Some(v)
		}

		if step.Expect.State != nil {
			expected = step.Expect.State.State()
		}
		errVal := None()
		if step.Expect.Error != "" {
			errVal = Some(itf.String(step.Expect.Error))
		}

		t.Steps = append(t.Steps, Step{
			Index:  i + 1,
			Action: step.Action,
			Picks:  picks,
			State:  EncodeState(expected),
			Error:  errVal,
		})
	}
	return t, nil
}

func pickValue(raw any) (itf.Value, error) {
	switch v := raw.(type) {
	case string:
		return itf.String(v), nil
	case int:
		return itf.NewInt(int64(v)), nil
	case int64:
		return itf.NewInt(v), nil
	case uint64:
		if v > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of range", v)
		}
		return itf.NewInt(int64(v)), nil
	case bool:
		return itf.Bool(v), nil
	default:
		return nil, fmt.Errorf("unsupported pick type %T", raw)
	}
}
