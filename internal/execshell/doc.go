// Package execshell provides structured helpers for invoking external tools.
//
// OSCommandRunner spawns processes either capturing their output or streaming
// it through caller supplied streams. ShellExecutor layers zap logging and
// lifecycle observers on top of a CommandRunner so the toolchain wrapper and
// the host layer can run external programs in a testable manner.
package execshell
