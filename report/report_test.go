package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rhartert/circuitsim/callsim"
	"github.com/rhartert/circuitsim/callsim/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testSummaries() []callsim.Summary {
	return []callsim.Summary{
		{
			Policy:      "SHPF",
			Total:       3,
			Admitted:    2,
			Blocked:     1,
			SuccessRate: 66.666666,
			BlockRate:   33.333333,
			AvgHops:     1.5,
			AvgDelay:    6,
			StdHops:     0.7071,
			StdDelay:    1.4142,
		},
		{
			Policy:    "SHPO",
			Total:     2,
			Blocked:   2,
			BlockRate: 100,
		},
	}
}

func TestTable(t *testing.T) {
	buf := &bytes.Buffer{}

	require.NoError(t, Table(buf, testSummaries(), false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Policy", "Total", "Calls", "Successful", "Success(%)",
		"Blocked", "Blocked(%)", "Avg", "Hops", "Avg", "Delay"}, strings.Fields(lines[0]))
	assert.Equal(t, strings.Repeat("=", 8*13-1), lines[1])
	assert.Equal(t, []string{"SHPF", "3", "2", "66.67", "1", "33.33", "1.5000", "6.0000"},
		strings.Fields(lines[2]))
	assert.Equal(t, []string{"SHPO", "2", "0", "0.00", "2", "100.00", "N/A", "N/A"},
		strings.Fields(lines[3]))
}

func TestTable_withStd(t *testing.T) {
	buf := &bytes.Buffer{}

	require.NoError(t, Table(buf, testSummaries(), true))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Std Delay")
	assert.Equal(t, []string{"0.7071", "1.4142"}, strings.Fields(lines[2])[8:])
	assert.Equal(t, []string{"N/A", "N/A"}, strings.Fields(lines[3])[8:])
}

func TestWriteYAML(t *testing.T) {
	buf := &bytes.Buffer{}

	require.NoError(t, WriteYAML(buf, testSummaries()))

	got := []callsim.Summary{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testSummaries(), got)
	assert.Contains(t, buf.String(), "block_rate: 100")
}

func TestNewPolicyTrace(t *testing.T) {
	nodes := callsim.NewNodes(0)
	for _, n := range []string{"A", "B", "C"} {
		_, err := nodes.Intern(n)
		require.NoError(t, err)
	}
	p, err := paths.New([]int{0, 1, 2}, []int{0, 1})
	require.NoError(t, err)
	outcomes := []callsim.Outcome{
		{
			Call:  callsim.Call{ID: 0, Arrival: 1, Duration: 2, Source: 0, Destination: 2},
			State: callsim.Expired,
			Path:  p,
			Hops:  2,
			Delay: 7,
		},
		{
			Call:  callsim.Call{ID: 1, Arrival: 2, Duration: 2, Source: 2, Destination: 0},
			State: callsim.Blocked,
		},
	}

	got := NewPolicyTrace("SDPF", nodes, outcomes)

	want := PolicyTrace{
		Policy: "SDPF",
		Calls: []CallTrace{
			{ID: 0, Arrival: 1, Duration: 2, Source: "A", Destination: "C", Admitted: true,
				Path: []string{"A", "B", "C"}, Hops: 2, Delay: 7},
			{ID: 1, Arrival: 2, Duration: 2, Source: "C", Destination: "A"},
		},
	}
	assert.Equal(t, want, got)

	trace := NewTrace([]PolicyTrace{got})
	buf := &bytes.Buffer{}
	require.NoError(t, WriteTrace(buf, trace))

	decoded := Trace{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, trace, decoded)
	_, err = uuid.Parse(decoded.RunID)
	assert.NoError(t, err)
	assert.NotEqual(t, trace.RunID, NewTrace(nil).RunID)
}
