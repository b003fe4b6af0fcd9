// Command callsim simulates the routing of circuit-switched calls under
// several path selection policies.
package main

import (
	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatalf("callsim: %s", err)
	}
}
