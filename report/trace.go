package report

import (
	"io"

	"github.com/google/uuid"
	"github.com/rhartert/circuitsim/callsim"
	"gopkg.in/yaml.v3"
)

// CallTrace is the exported outcome of a single call.
type CallTrace struct {
	ID          int      `yaml:"id"`
	Arrival     float64  `yaml:"arrival"`
	Duration    float64  `yaml:"duration"`
	Source      string   `yaml:"source"`
	Destination string   `yaml:"destination"`
	Admitted    bool     `yaml:"admitted"`
	Path        []string `yaml:"path,omitempty"`
	Hops        int      `yaml:"hops,omitempty"`
	Delay       float64  `yaml:"delay,omitempty"`
}

// PolicyTrace groups the outcome of every call of a run.
type PolicyTrace struct {
	Policy string      `yaml:"policy"`
	Calls  []CallTrace `yaml:"calls"`
}

// NewPolicyTrace converts the outcomes of a run. Calls that expired during
// the run are reported as admitted.
func NewPolicyTrace(policy string, nodes *callsim.Nodes, outcomes []callsim.Outcome) PolicyTrace {
	pt := PolicyTrace{
		Policy: policy,
		Calls:  make([]CallTrace, len(outcomes)),
	}
	for i, o := range outcomes {
		ct := CallTrace{
			ID:          o.Call.ID,
			Arrival:     o.Call.Arrival,
			Duration:    o.Call.Duration,
			Source:      nodes.Name(o.Call.Source),
			Destination: nodes.Name(o.Call.Destination),
			Admitted:    o.State == callsim.Admitted || o.State == callsim.Expired,
		}
		if o.Path != nil {
			for _, n := range o.Path.Nodes() {
				ct.Path = append(ct.Path, nodes.Name(n))
			}
			ct.Hops = o.Hops
			ct.Delay = o.Delay
		}
		pt.Calls[i] = ct
	}
	return pt
}

// Trace is the exported outcome of every call of every run of a simulation.
type Trace struct {
	RunID    string        `yaml:"run_id"`
	Policies []PolicyTrace `yaml:"policies"`
}

// NewTrace returns a trace identified by a new random ID.
func NewTrace(policies []PolicyTrace) Trace {
	return Trace{
		RunID:    uuid.NewString(),
		Policies: policies,
	}
}

// WriteTrace writes the trace as a YAML document.
func WriteTrace(w io.Writer, trace Trace) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(trace); err != nil {
		return err
	}
	return enc.Close()
}
