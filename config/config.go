// Package config loads simulation scenarios.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/circuitsim/callsim"
	"gopkg.in/yaml.v3"
)

// Config describes a simulation scenario. Every field can be overridden by
// command line flags.
type Config struct {
	// Paths of the topology and call workload files.
	Topology string `yaml:"topology"`
	Workload string `yaml:"workload"`

	// Names of the routing policies to simulate, in report order. All
	// policies are simulated if empty.
	Policies []string `yaml:"policies"`

	// Path metric of the load-based policies: "bottleneck" or "additive".
	Metric string `yaml:"metric"`

	// Maximum number of distinct nodes in the topology. Zero means no limit.
	MaxNodes int `yaml:"max_nodes"`

	// Number of policies simulated concurrently.
	Parallel int `yaml:"parallel"`

	// Check capacity conservation after each call.
	Verify bool `yaml:"verify"`
}

// Default returns the default scenario: all policies over
// topology.dat and callworkload.dat in the working directory.
func Default() Config {
	return Config{
		Topology: "topology.dat",
		Workload: "callworkload.dat",
		Metric:   callsim.Bottleneck.String(),
		MaxNodes: callsim.DefaultMaxNodes,
		Parallel: 1,
	}
}

// Load reads the scenario stored at path. Fields absent from the file keep
// their default value. Unknown fields are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a scenario from r. See Load.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks that all fields of the scenario are valid.
func (c Config) Validate() error {
	if c.Topology == "" {
		return fmt.Errorf("topology file required")
	}
	if c.Workload == "" {
		return fmt.Errorf("workload file required")
	}
	if _, err := c.ParsePolicies(); err != nil {
		return err
	}
	if _, err := c.ParseMetric(); err != nil {
		return err
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must be non-negative, got %d", c.MaxNodes)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be positive, got %d", c.Parallel)
	}
	return nil
}

// ParsePolicies returns the scenario's policies, or all policies if none is
// set. Duplicates are rejected.
func (c Config) ParsePolicies() ([]callsim.Policy, error) {
	if len(c.Policies) == 0 {
		return callsim.AllPolicies(), nil
	}
	seen := map[callsim.Policy]bool{}
	policies := make([]callsim.Policy, 0, len(c.Policies))
	for _, name := range c.Policies {
		p, err := callsim.ParsePolicy(name)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			return nil, fmt.Errorf("policy %s listed twice", p)
		}
		seen[p] = true
		policies = append(policies, p)
	}
	return policies, nil
}

// ParseMetric returns the scenario's path metric.
func (c Config) ParseMetric() (callsim.PathMetric, error) {
	return callsim.ParsePathMetric(c.Metric)
}
