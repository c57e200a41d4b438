package xtee

import (
	"fmt"
	"strings"
)

// Sprint renders arguments the way a script console prints them: every
// operand formatted with %v and separated by a single space.
func Sprint(args ...any) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
