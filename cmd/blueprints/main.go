// Package main is the entry point for the blueprints CLI.
//
// blueprints provisions cluster add-ons (the OpenTelemetry operator, an
// Amazon Managed Service for Prometheus collector and Flux) onto an
// existing Kubernetes cluster. Resources are collected into a plan and
// applied in dependency order with Server-Side Apply.
//
// Commands: init, plan, deploy, version.
//
// For detailed usage information, run:
//
//	blueprints --help
package main

import (
	"fmt"
	"os"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/imamik/blueprints/cmd/blueprints/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctrl.SetupSignalHandler()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
