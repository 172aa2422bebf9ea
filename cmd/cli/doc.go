// Package cli assembles the arduino-ci root command. It loads layered
// configuration, builds the diagnostic and console loggers, and registers the
// toolchain and host subcommands.
package cli
