package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newRootCmd returns the base command of the CLI with all its subcommands.
func newRootCmd() *cobra.Command {
	logLevel := "warn"

	root := &cobra.Command{
		Use:           "callsim",
		Short:         "Discrete-event simulator for call routing in circuit-switched networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log", logLevel, "Log level (trace, debug, info, warn, error, fatal, panic)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newGenCmd())
	return root
}
