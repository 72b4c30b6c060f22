package scenario

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"canary/internal/corrupt"
	"canary/internal/frame"
)

// Scenario is one configured run: a fresh frame and one write plan.
type Scenario struct {
	Name string `toml:"name" msgpack:"name"`
	// Steps selects the sequential plan: value i written at index i for i in [0, Steps).
	Steps int `toml:"steps" msgpack:"steps"`
	// Values, when set, replaces Steps: Values[i] is written at index i.
	Values []int `toml:"values" msgpack:"values,omitempty"`
}

// Config is the set of scenarios a single invocation runs, in order.
type Config struct {
	Scenarios []Scenario `toml:"scenario"`
}

// SweepLengths are the write lengths of the sweep: inside the buffer, into
// padding, and partially or fully over length.
var SweepLengths = []int{5, 6, 8, 10, 12}

// Default returns the canonical overflow: every byte of the frame.
func Default() Config {
	return Config{Scenarios: []Scenario{{Name: "overflow", Steps: frame.Size}}}
}

// Sweep returns one scenario per SweepLengths entry.
func Sweep() Config {
	cfg := Config{Scenarios: make([]Scenario, 0, len(SweepLengths))}
	for _, n := range SweepLengths {
		cfg.Scenarios = append(cfg.Scenarios, Scenario{Name: fmt.Sprintf("write-%d", n), Steps: n})
	}
	return cfg
}

// LoadConfig reads scenarios from a TOML file:
//
//	[[scenario]]
//	name = "overflow"
//	steps = 20
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("scenario") {
		return Config{}, fmt.Errorf("%s: missing [[scenario]] table", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate names unnamed scenarios and checks that every plan can be built.
func (c *Config) Validate() error {
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("no scenarios configured")
	}
	for i := range c.Scenarios {
		sc := &c.Scenarios[i]
		if strings.TrimSpace(sc.Name) == "" {
			sc.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if _, err := sc.Plan(); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	return nil
}

// Plan builds the scenario's write plan.
func (s Scenario) Plan() (*corrupt.Plan, error) {
	if len(s.Values) == 0 {
		return corrupt.Sequential(s.Steps)
	}
	values := make([]byte, len(s.Values))
	for i, v := range s.Values {
		b, err := safecast.Conv[byte](v)
		if err != nil {
			return nil, fmt.Errorf("values[%d]=%d is not a byte: %w", i, v, err)
		}
		values[i] = b
	}
	return corrupt.FromValues(values)
}
