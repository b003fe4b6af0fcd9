package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rhartert/circuitsim/callsim"
	"github.com/rhartert/circuitsim/config"
	"github.com/rhartert/circuitsim/experiment"
	"github.com/rhartert/circuitsim/metrics"
	"github.com/rhartert/circuitsim/parser"
	"github.com/rhartert/circuitsim/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type runFlags struct {
	configPath  string
	metricsFile string
	traceFile   string
	format      string
	withStd     bool

	// Overrides of the scenario file.
	topology string
	workload string
	policies []string
	metric   string
	maxNodes int
	parallel int
	verify   bool
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a call workload under each routing policy and report their statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.scenario(cmd)
			if err != nil {
				return err
			}
			return simulate(cmd, cfg, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "YAML scenario file")
	flags.StringVar(&f.topology, "topology", def.Topology, "Topology file")
	flags.StringVar(&f.workload, "workload", def.Workload, "Call workload file")
	flags.StringSliceVar(&f.policies, "policies", nil, "Comma-separated policies to simulate (default all)")
	flags.StringVar(&f.metric, "metric", def.Metric, "Path metric of LLP and MFC (bottleneck, additive)")
	flags.IntVar(&f.maxNodes, "max-nodes", def.MaxNodes, "Maximum number of distinct nodes (0 for no limit)")
	flags.IntVar(&f.parallel, "parallel", def.Parallel, "Number of policies simulated concurrently")
	flags.BoolVar(&f.verify, "verify", def.Verify, "Check capacity conservation after each call")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	flags.StringVar(&f.traceFile, "trace-file", "", "Write the outcome of every call to this YAML file")
	flags.StringVar(&f.format, "format", "table", "Report format (table, yaml)")
	flags.BoolVar(&f.withStd, "std", false, "Add standard deviation columns to the table")
	return cmd
}

// scenario loads the scenario file, if any, and applies the flags that were
// explicitly set on the command line.
func (f *runFlags) scenario(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		c, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("topology") {
		cfg.Topology = f.topology
	}
	if flags.Changed("workload") {
		cfg.Workload = f.workload
	}
	if flags.Changed("policies") {
		cfg.Policies = f.policies
	}
	if flags.Changed("metric") {
		cfg.Metric = f.metric
	}
	if flags.Changed("max-nodes") {
		cfg.MaxNodes = f.maxNodes
	}
	if flags.Changed("parallel") {
		cfg.Parallel = f.parallel
	}
	if flags.Changed("verify") {
		cfg.Verify = f.verify
	}

	if f.format != "table" && f.format != "yaml" {
		return config.Config{}, fmt.Errorf("unknown report format %q", f.format)
	}
	return cfg, cfg.Validate()
}

func simulate(cmd *cobra.Command, cfg config.Config, f *runFlags) error {
	policies, err := cfg.ParsePolicies()
	if err != nil {
		return err
	}
	metric, err := cfg.ParseMetric()
	if err != nil {
		return err
	}

	topo, err := parser.ParseTopologyFile(cfg.Topology, cfg.MaxNodes)
	if err != nil {
		return err
	}
	calls, sorted, err := parser.ParseWorkloadFile(cfg.Workload, topo.Nodes)
	if err != nil {
		return err
	}
	if !sorted {
		logrus.Warnf("%s: calls are not ordered by arrival time, they will be sorted", cfg.Workload)
	}
	logrus.Infof("loaded %d nodes, %d links and %d calls", topo.NumNodes(), topo.NumLinks(), len(calls))

	runner := &experiment.Runner{
		Topology: topo,
		Calls:    calls,
		Metric:   metric,
		Parallel: cfg.Parallel,
		Verify:   cfg.Verify,
	}
	var collector *metrics.Collector
	if f.metricsFile != "" {
		collector, err = metrics.NewCollector(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		runner.Observer = collector
	}

	results, err := runner.Run(cmd.Context(), policies)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summaries := experiment.Summaries(results)
	if f.format == "yaml" {
		err = report.WriteYAML(out, summaries)
	} else {
		err = report.Table(out, summaries, f.withStd)
	}
	if err != nil {
		return err
	}

	if collector != nil {
		if err := collector.WriteFile(f.metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if f.traceFile != "" {
		if err := writeTrace(f.traceFile, topo.Nodes, results); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	return nil
}

func writeTrace(path string, nodes *callsim.Nodes, results []experiment.Result) error {
	traces := make([]report.PolicyTrace, len(results))
	for i, res := range results {
		traces[i] = report.NewPolicyTrace(res.Summary.Policy, nodes, res.Outcomes)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteTrace(file, report.NewTrace(traces)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
