// Package toolchain exposes the toolchain wrapper through Cobra commands:
// locating the installation, verifying sketches, probing boards and managing
// the toolchain preference store.
package toolchain
