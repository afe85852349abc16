// Package main hosts the framepress CLI entrypoint and command graph.
//
// The root command runs a batch conversion over a directory; subcommands
// cover run-history inspection and configuration scaffolding. Configuration
// resolution and logging setup happen here so the internal packages can stay
// independent of the terminal surface.
package main
