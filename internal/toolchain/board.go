package toolchain

import (
	"regexp"
	"strings"
)

const (
	boardIdentifierSeparatorConstant          = ":"
	boardIdentifierRequiredTokenCountConstant = 3
	boardIdentifierMaximumTokenCountConstant  = 4
	boardIdentifierOptionsWhitespaceConstant  = " \t\r\n"
)

var boardIdentifierTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// BoardIdentifier names a hardware target as vendor:architecture:board with optional build options.
type BoardIdentifier struct {
	Vendor       string
	Architecture string
	Board        string
	Options      string
}

// ParseBoardIdentifier validates and splits a fully qualified board name.
// Malformed identifiers are reported through the boolean result.
func ParseBoardIdentifier(rawIdentifier string) (BoardIdentifier, bool) {
	if rawIdentifier != strings.TrimSpace(rawIdentifier) {
		return BoardIdentifier{}, false
	}

	tokens := strings.SplitN(rawIdentifier, boardIdentifierSeparatorConstant, boardIdentifierMaximumTokenCountConstant)
	if len(tokens) < boardIdentifierRequiredTokenCountConstant {
		return BoardIdentifier{}, false
	}

	for _, token := range tokens[:boardIdentifierRequiredTokenCountConstant] {
		if !boardIdentifierTokenPattern.MatchString(token) {
			return BoardIdentifier{}, false
		}
	}

	identifier := BoardIdentifier{
		Vendor:       tokens[0],
		Architecture: tokens[1],
		Board:        tokens[2],
	}

	if len(tokens) == boardIdentifierMaximumTokenCountConstant {
		options := tokens[3]
		if len(options) == 0 || strings.ContainsAny(options, boardIdentifierOptionsWhitespaceConstant) {
			return BoardIdentifier{}, false
		}
		identifier.Options = options
	}

	return identifier, true
}

// String renders the identifier in the form accepted by the toolchain.
func (identifier BoardIdentifier) String() string {
	tokens := []string{identifier.Vendor, identifier.Architecture, identifier.Board}
	if len(identifier.Options) > 0 {
		tokens = append(tokens, identifier.Options)
	}
	return strings.Join(tokens, boardIdentifierSeparatorConstant)
}
