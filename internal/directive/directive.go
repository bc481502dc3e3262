// Package directive handles sideeffect comment directives.
//
// # Supported Directives
//
//	//sideeffect:pure   - The function has no side effect on its arguments
//	//sideeffect:read   - The function only reads its resource arguments
//	//sideeffect:write  - The function writes its resource arguments
//	//sideeffect:ignore - Suppress reports for the next line or same line
//
// # Directive Placement
//
// Effect directives go in the doc comment of a function declaration:
//
//	//sideeffect:read
//	func peek(p *int) int {
//	    return *p
//	}
//
// Ignore directives go on the line before the reported instruction, on the
// same line, or in the package doc comment to silence a whole file:
//
//	//sideeffect:ignore
//	*p = v  // Not reported
package directive

import "strings"

const directivePrefix = "sideeffect:"

// Kind is the effect a directive declares for a function.
type Kind int

// Directive kinds.
const (
	None Kind = iota
	Pure
	Read
	Write
)

func (k Kind) String() string {
	switch k {
	case Pure:
		return "pure"
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "none"
	}
}

// directiveName returns the directive name of a comment, or "" if the
// comment is not a directive. Supports both "//sideeffect:name" and
// "// sideeffect:name".
func directiveName(text string) string {
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)
	name, ok := strings.CutPrefix(text, directivePrefix)
	if !ok {
		return ""
	}
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return name
}

// ParseKind returns the effect kind declared by a comment, or None.
func ParseKind(text string) Kind {
	switch directiveName(text) {
	case "pure":
		return Pure
	case "read":
		return Read
	case "write":
		return Write
	default:
		return None
	}
}

// IsIgnoreDirective checks if a comment is an ignore directive.
func IsIgnoreDirective(text string) bool { return directiveName(text) == "ignore" }
