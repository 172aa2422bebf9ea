// Package host abstracts the machine arduino-ci runs on.
//
// It classifies the operating system once, selects a Platform dispatch record
// for that class, resolves executables across the search path with the
// platform's executable suffixes, and creates symbolic links using the
// primitive the platform supports.
package host
