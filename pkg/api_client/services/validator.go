package services

import (
	"fmt"
	"regexp"
	"strings"
)

// lintAllFlag asks the analyzer to lint every registered tool.
const lintAllFlag = "--lint-all"

// Same alphabet as bio.tools IDs.
var toolIDRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateToolID trims raw and returns it when it is safe to pass to the
// analyzer as a single argument.
func ValidateToolID(raw string) (string, error) {
	tool := strings.TrimSpace(raw)
	if !toolIDRe.MatchString(tool) {
		return "", fmt.Errorf("%w: %q", ErrValidation, tool)
	}
	if strings.Contains(tool, lintAllFlag) {
		return "", fmt.Errorf("%w: %q contains %s", ErrValidation, tool, lintAllFlag)
	}
	return tool, nil
}
