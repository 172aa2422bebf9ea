package toolchain

import (
	"path/filepath"
	"strings"

	"github.com/temirov/arduino-ci/internal/host"
)

const (
	sketchExtensionConstant       = ".ino"
	legacySketchExtensionConstant = ".pde"
)

// SketchStatus classifies a sketch path before the toolchain is invoked.
type SketchStatus string

// Sketch classifications.
const (
	SketchStatusReady       SketchStatus = SketchStatus("ready")
	SketchStatusMissing     SketchStatus = SketchStatus("missing")
	SketchStatusUnsupported SketchStatus = SketchStatus("unsupported")
)

// SketchInspection is the outcome of checking a sketch path.
type SketchInspection struct {
	Status       SketchStatus
	AbsolutePath string
}

// SketchInspector validates sketch paths against the filesystem.
type SketchInspector struct {
	fileSystem host.FileSystem
}

// NewSketchInspector constructs an inspector backed by fileSystem.
func NewSketchInspector(fileSystem host.FileSystem) SketchInspector {
	if fileSystem == nil {
		fileSystem = host.OSFileSystem{}
	}
	return SketchInspector{fileSystem: fileSystem}
}

// Inspect reports whether sketchPath names a readable sketch the toolchain accepts.
// Presence is checked before the extension, so a missing legacy sketch is reported as missing.
func (inspector SketchInspector) Inspect(sketchPath string) SketchInspection {
	trimmedPath := strings.TrimSpace(sketchPath)
	if len(trimmedPath) == 0 {
		return SketchInspection{Status: SketchStatusMissing}
	}

	absolutePath, absoluteError := inspector.fileSystem.Abs(trimmedPath)
	if absoluteError != nil {
		return SketchInspection{Status: SketchStatusMissing}
	}

	inspection := SketchInspection{Status: SketchStatusMissing, AbsolutePath: absolutePath}

	fileInfo, statError := inspector.fileSystem.Stat(absolutePath)
	if statError != nil || fileInfo.IsDir() {
		return inspection
	}

	sketchFile, openError := inspector.fileSystem.Open(absolutePath)
	if openError != nil {
		return inspection
	}
	_ = sketchFile.Close()

	switch strings.ToLower(filepath.Ext(absolutePath)) {
	case legacySketchExtensionConstant:
		inspection.Status = SketchStatusUnsupported
	case sketchExtensionConstant:
		inspection.Status = SketchStatusReady
	}
	return inspection
}
