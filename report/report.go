// Package report renders the summaries of simulation runs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rhartert/circuitsim/callsim"
	"gopkg.in/yaml.v3"
)

const colWidth = 12

var headers = []string{
	"Policy",
	"Total Calls",
	"Successful",
	"Success(%)",
	"Blocked",
	"Blocked(%)",
	"Avg Hops",
	"Avg Delay",
}

var stdHeaders = []string{"Std Hops", "Std Delay"}

// Table writes one row per summary in a fixed-width table. Columns holding
// the standard deviation of hops and delay are added if withStd is true.
func Table(w io.Writer, summaries []callsim.Summary, withStd bool) error {
	cols := headers
	if withStd {
		cols = append(append([]string{}, headers...), stdHeaders...)
	}

	if _, err := fmt.Fprintln(w, row(cols)); err != nil {
		return err
	}
	rule := strings.Repeat("=", len(cols)*(colWidth+1)-1)
	if _, err := fmt.Fprintln(w, rule); err != nil {
		return err
	}

	for _, s := range summaries {
		cells := []string{
			s.Policy,
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d", s.Admitted),
			fmt.Sprintf("%.2f", s.SuccessRate),
			fmt.Sprintf("%d", s.Blocked),
			fmt.Sprintf("%.2f", s.BlockRate),
			average(s, s.AvgHops),
			average(s, s.AvgDelay),
		}
		if withStd {
			cells = append(cells, average(s, s.StdHops), average(s, s.StdDelay))
		}
		if _, err := fmt.Fprintln(w, row(cells)); err != nil {
			return err
		}
	}
	return nil
}

// WriteYAML writes the summaries as a YAML sequence.
func WriteYAML(w io.Writer, summaries []callsim.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summaries); err != nil {
		return err
	}
	return enc.Close()
}

func average(s callsim.Summary, v float64) string {
	if !s.HasAverages() {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", v)
}

func row(cells []string) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = fmt.Sprintf("%-*s", colWidth, c)
	}
	return strings.TrimRight(strings.Join(padded, "\t"), " ")
}
