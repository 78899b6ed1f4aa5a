package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/substrate"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a scenario fixture.
type Fixture struct {
	Description string            `json:"description"`
	Config      json.RawMessage   `json:"config,omitempty"`
	Scenarios   []FixtureScenario `json:"scenarios"`
}

// FixtureScenario is one system plus its expectation. Exactly one of
// Classical and Quantum is set.
type FixtureScenario struct {
	ID        string                          `json:"id"`
	Config    json.RawMessage                 `json:"config,omitempty"`
	Classical *substrate.ClassicalDescription `json:"classical,omitempty"`
	Quantum   *substrate.QuantumDescription   `json:"quantum,omitempty"`
	Expect    FixtureExpectation              `json:"expect"`
}

// FixtureExpectation mirrors Expectation with JSON tags.
type FixtureExpectation struct {
	Phi       *float64 `json:"phi,omitempty"`
	Tolerance float64  `json:"tolerance,omitempty"`
	Above     *float64 `json:"above,omitempty"`
	Below     *float64 `json:"below,omitempty"`
	MIP       string   `json:"mip,omitempty"`
	Method    string   `json:"method,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToScenarios converts every fixture scenario to its domain form. The fixture
// config overlays the defaults and each scenario config overlays the fixture config.
func (f *Fixture) ToScenarios() ([]Scenario, error) {
	base, err := parseConfig(f.Config, phi.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("fixture config: %w", err)
	}
	out := make([]Scenario, 0, len(f.Scenarios))
	for i := range f.Scenarios {
		sc, err := f.Scenarios[i].ToScenario(base)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", f.Scenarios[i].ID, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

// ToScenario converts fs, overlaying its config on base.
func (fs *FixtureScenario) ToScenario(base phi.Config) (Scenario, error) {
	cfg, err := parseConfig(fs.Config, base)
	if err != nil {
		return Scenario{}, err
	}
	sc := Scenario{ID: fs.ID, Config: cfg, Expect: fs.Expect.ToExpectation()}
	switch {
	case fs.Classical != nil && fs.Quantum == nil:
		d := *fs.Classical
		sc.Build = func(cfg phi.Config) (Querier, error) { return d.Build(cfg) }
	case fs.Quantum != nil && fs.Classical == nil:
		d := *fs.Quantum
		sc.Build = func(cfg phi.Config) (Querier, error) { return d.Build(cfg) }
	default:
		return Scenario{}, fmt.Errorf("exactly one of classical and quantum must be set")
	}
	return sc, nil
}

// ToExpectation converts a FixtureExpectation to its domain form.
func (fe FixtureExpectation) ToExpectation() Expectation {
	return Expectation{
		Phi:       fe.Phi,
		Tolerance: fe.Tolerance,
		Above:     fe.Above,
		Below:     fe.Below,
		MIP:       fe.MIP,
		Method:    phi.Method(fe.Method),
		ErrorKind: phierr.Kind(fe.Error),
	}
}

func parseConfig(raw json.RawMessage, fallback phi.Config) (phi.Config, error) {
	if len(raw) == 0 {
		return fallback, nil
	}
	return fallback.Overlay(raw)
}

// #endregion fixture-loader
