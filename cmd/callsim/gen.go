package main

import (
	"io"
	"os"

	"github.com/rhartert/circuitsim/callsim"
	"github.com/rhartert/circuitsim/parser"
	"github.com/rhartert/circuitsim/workload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newGenCmd() *cobra.Command {
	var (
		topology string
		output   string
		maxNodes int
		cfg      workload.Config
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random call workload over a topology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := parser.ParseTopologyFile(topology, maxNodes)
			if err != nil {
				return err
			}
			g, err := workload.NewGenerator(topo, cfg, nil)
			if err != nil {
				return err
			}
			calls := g.Generate()
			logrus.Infof("generated %d calls over %d nodes", len(calls), topo.NumNodes())

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			return parser.WriteWorkload(w, topo.Nodes, calls)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&topology, "topology", "topology.dat", "Topology file")
	flags.StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	flags.IntVar(&maxNodes, "max-nodes", callsim.DefaultMaxNodes, "Maximum number of distinct nodes (0 for no limit)")
	flags.IntVar(&cfg.Calls, "calls", 1000, "Number of calls")
	flags.Float64Var(&cfg.ArrivalRate, "rate", 1, "Mean number of call arrivals per unit of time")
	flags.Float64Var(&cfg.MeanDuration, "mean-duration", 10, "Mean call holding time")
	flags.Uint64Var(&cfg.Seed, "seed", 42, "Seed of the arrival and holding time distributions")
	return cmd
}
