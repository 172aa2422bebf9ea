// Package toolchain drives an installed Arduino IDE command line.
//
// It locates a usable installation across host classes, keeps a cached view
// of the IDE's persisted preferences, and derives boolean results for board
// probes, preference updates, and sketch verification from the exit status of
// each invocation. Process spawning is delegated to the execshell package so
// every invocation is logged the same way.
package toolchain
