package toolchain

import (
	"os"
	"strings"

	"github.com/temirov/arduino-ci/internal/host"
	pathutils "github.com/temirov/arduino-ci/internal/utils/path"
)

const pathSeparatorCharactersConstant = `/\`

type installationLayout struct {
	defaultLocations []string
	commandNames     []string
}

var installationLayoutsByClass = map[host.Class]installationLayout{
	host.ClassMacOS: {
		defaultLocations: []string{
			"/Applications/Arduino.app/Contents/MacOS/Arduino",
			"~/Applications/Arduino.app/Contents/MacOS/Arduino",
		},
		commandNames: []string{"arduino", "Arduino"},
	},
	host.ClassLinux: {
		defaultLocations: []string{
			"~/arduino_ide/arduino",
			"/usr/local/share/arduino/arduino",
			"/opt/arduino/arduino",
		},
		commandNames: []string{"arduino"},
	},
	host.ClassWindows: {
		defaultLocations: []string{
			`C:\Program Files (x86)\Arduino\arduino_debug.exe`,
			`C:\Program Files\Arduino\arduino_debug.exe`,
		},
		commandNames: []string{"arduino_debug", "arduino"},
	},
}

// Locator searches configured and conventional install locations for the toolchain.
type Locator struct {
	platform          host.Platform
	fileSystem        host.FileSystem
	resolver          *host.ExecutableResolver
	homeExpander      *pathutils.HomeExpander
	environmentLookup host.EnvironmentLookup
}

// NewLocator constructs a Locator. Nil collaborators fall back to the operating system.
func NewLocator(platform host.Platform, fileSystem host.FileSystem, homeExpander *pathutils.HomeExpander, environmentLookup host.EnvironmentLookup) *Locator {
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileSystem == nil {
		fileSystem = host.OSFileSystem{}
	}
	return &Locator{
		platform:          platform,
		fileSystem:        fileSystem,
		resolver:          host.NewExecutableResolver(fileSystem, platform),
		homeExpander:      homeExpander,
		environmentLookup: environmentLookup,
	}
}

// CandidateLocations lists the explicit paths checked before the search path, in order.
// Every candidate is absolute; relative entries resolve against the working directory.
func (locator *Locator) CandidateLocations(configuration Configuration) []string {
	sanitized := configuration.Sanitize()
	candidates := make([]string, 0)
	if len(sanitized.CommandPath) > 0 && !isBareCommandName(sanitized.CommandPath) {
		candidates = append(candidates, locator.homeExpander.Expand(sanitized.CommandPath))
	}
	candidates = append(candidates, locator.homeExpander.ExpandAll(sanitized.SearchLocations)...)
	candidates = append(candidates, locator.homeExpander.ExpandAll(locator.layout().defaultLocations)...)

	absoluteCandidates := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		absoluteCandidate, absoluteError := locator.fileSystem.Abs(candidate)
		if absoluteError != nil {
			continue
		}
		absoluteCandidates = append(absoluteCandidates, absoluteCandidate)
	}
	return absoluteCandidates
}

// CommandNames lists the names resolved against the search path, in order.
func (locator *Locator) CommandNames(configuration Configuration) []string {
	sanitized := configuration.Sanitize()
	commandNames := make([]string, 0)
	if len(sanitized.CommandPath) > 0 && isBareCommandName(sanitized.CommandPath) {
		commandNames = append(commandNames, sanitized.CommandPath)
	}
	return append(commandNames, locator.layout().commandNames...)
}

// Locate returns the first runnable installation. Absence is reported through the boolean result.
func (locator *Locator) Locate(configuration Configuration) (Installation, bool) {
	for _, candidateLocation := range locator.CandidateLocations(configuration) {
		if locator.resolver.IsRunnable(candidateLocation) {
			return Installation{CommandPath: candidateLocation}, true
		}
	}

	searchConfiguration := host.EnvironmentSearchConfiguration(locator.platform, locator.environmentLookup)
	for _, commandName := range locator.CommandNames(configuration) {
		resolvedPath, resolved := locator.resolver.Resolve(commandName, searchConfiguration)
		if resolved {
			return Installation{CommandPath: resolvedPath}, true
		}
	}

	return Installation{}, false
}

func (locator *Locator) layout() installationLayout {
	layout, layoutExists := installationLayoutsByClass[locator.platform.Class]
	if !layoutExists {
		return installationLayoutsByClass[host.ClassLinux]
	}
	return layout
}

func isBareCommandName(commandPath string) bool {
	return !strings.ContainsAny(commandPath, pathSeparatorCharactersConstant) && !strings.HasPrefix(commandPath, "~")
}
