// Package ui renders command progress for people reading a terminal.
//
// Lifecycle events become short sentences about the sketch or board being
// processed; per-subject verdicts are printed as stable "LABEL: subject" lines
// that scripts can grep.
package ui
