package host

import (
	"runtime"
	"strings"
)

const (
	goosDarwinConstant  = "darwin"
	goosWindowsConstant = "windows"
	classMacOSConstant  = "macos"
	classLinuxConstant  = "linux"
	classWinConstant    = "windows"
)

// Class enumerates the operating system families arduino-ci distinguishes.
type Class string

// Supported host classes.
const (
	ClassMacOS   Class = Class(classMacOSConstant)
	ClassLinux   Class = Class(classLinuxConstant)
	ClassWindows Class = Class(classWinConstant)
)

var currentClass = ClassifyOperatingSystem(runtime.GOOS)

// ClassifyOperatingSystem maps a GOOS value onto a host class.
// Unix-like systems other than darwin are treated as linux.
func ClassifyOperatingSystem(goos string) Class {
	switch strings.ToLower(strings.TrimSpace(goos)) {
	case goosDarwinConstant:
		return ClassMacOS
	case goosWindowsConstant:
		return ClassWindows
	default:
		return ClassLinux
	}
}

// CurrentClass reports the class of the running host.
func CurrentClass() Class {
	return currentClass
}

// String returns the class identifier.
func (class Class) String() string {
	return string(class)
}
