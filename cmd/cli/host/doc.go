// Package host exposes the host abstraction layer through Cobra commands so
// workspace setup scripts can classify the host, resolve executables and link
// library directories the same way the toolchain wrapper does.
package host
