// Package parser reads topology and call workload files.
//
// Both formats are whitespace separated, one record per line. Blank lines and
// lines starting with '#' are ignored.
//
// A topology file has one line per bidirectional link:
//
//	<node> <node> <propagation delay> <capacity>
//
// A workload file has one line per call:
//
//	<arrival time> <source> <destination> <duration>
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rhartert/circuitsim/callsim"
)

// ParseTopologyFile reads the topology stored at filepath. See ParseTopology.
func ParseTopologyFile(filepath string, maxNodes int) (*callsim.Topology, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	topo, err := ParseTopology(file, maxNodes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return topo, nil
}

// ParseTopology reads a topology from r. Nodes are numbered by order of first
// appearance and at most maxNodes distinct nodes are accepted (0 means no
// limit).
func ParseTopology(r io.Reader, maxNodes int) (*callsim.Topology, error) {
	nodes := callsim.NewNodes(maxNodes)
	links := []callsim.Link{}

	err := scanRecords(r, func(line int, parts []string) error {
		a, err := nodes.Intern(parts[0])
		if err != nil {
			return err
		}
		b, err := nodes.Intern(parts[1])
		if err != nil {
			return err
		}
		delay, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return fmt.Errorf("invalid delay: %w", err)
		}
		capacity, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid capacity: %w", err)
		}
		links = append(links, callsim.Link{
			A:        a,
			B:        b,
			Delay:    delay,
			Capacity: capacity,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return callsim.NewTopology(nodes, links)
}

// ParseWorkloadFile reads the workload stored at filepath. See ParseWorkload.
func ParseWorkloadFile(filepath string, nodes *callsim.Nodes) ([]callsim.Call, bool, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, false, err
	}
	defer file.Close()

	calls, sorted, err := ParseWorkload(file, nodes)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", filepath, err)
	}
	return calls, sorted, nil
}

// ParseWorkload reads calls from r. Calls are identified by their position
// in the file and must only refer to known nodes. The second returned value
// reports whether the calls are ordered by arrival time.
func ParseWorkload(r io.Reader, nodes *callsim.Nodes) ([]callsim.Call, bool, error) {
	calls := []callsim.Call{}
	sorted := true

	err := scanRecords(r, func(line int, parts []string) error {
		arrival, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return fmt.Errorf("invalid arrival time: %w", err)
		}
		src, ok := nodes.Index(parts[1])
		if !ok {
			return fmt.Errorf("%w: %q", callsim.ErrUnknownNode, parts[1])
		}
		dst, ok := nodes.Index(parts[2])
		if !ok {
			return fmt.Errorf("%w: %q", callsim.ErrUnknownNode, parts[2])
		}
		duration, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		if n := len(calls); n > 0 && arrival < calls[n-1].Arrival {
			sorted = false
		}
		calls = append(calls, callsim.Call{
			ID:          len(calls),
			Arrival:     arrival,
			Duration:    duration,
			Source:      src,
			Destination: dst,
		})
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return calls, sorted, nil
}

// scanRecords calls fn on each record of r. Records must have exactly four
// fields.
func scanRecords(r io.Reader, fn func(line int, parts []string) error) error {
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Fields(text)
		if len(parts) != 4 {
			return fmt.Errorf("line %d: want 4 fields, got %d", line, len(parts))
		}
		if err := fn(line, parts); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}
