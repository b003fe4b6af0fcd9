package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/rhartert/circuitsim/callsim"
)

// WriteWorkload writes calls to w in the format read by ParseWorkload.
func WriteWorkload(w io.Writer, nodes *callsim.Nodes, calls []callsim.Call) error {
	bw := bufio.NewWriter(w)
	for _, c := range calls {
		_, err := fmt.Fprintf(bw, "%s %s %s %s\n",
			formatFloat(c.Arrival),
			nodes.Name(c.Source),
			nodes.Name(c.Destination),
			formatFloat(c.Duration))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
