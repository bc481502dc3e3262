package directive

import (
	"go/ast"
	"go/token"
	"slices"
)

// ignoreEntry tracks an ignore directive and whether it was used.
type ignoreEntry struct {
	pos  token.Pos // Position of the ignore comment
	used bool      // Whether this ignore suppressed a report
}

// fileLevel is the IgnoreMap key of a file-level ignore.
const fileLevel = -1

// IgnoreMap tracks line numbers that have ignore comments.
type IgnoreMap map[int]*ignoreEntry

// BuildIgnoreMap scans a file for ignore comments.
//
// Example:
//
//	//sideeffect:ignore      // Line 5 → map[5]
//	*p = v                   // Line 6 → ignored (line 5 covers line 6)
//
//	// sideeffect:ignore     // In the package doc → map[-1]
//	package main             // All lines ignored
func BuildIgnoreMap(fset *token.FileSet, file *ast.File) IgnoreMap {
	m := make(IgnoreMap)
	for _, cg := range file.Comments {
		if cg == file.Doc {
			continue
		}
		for _, c := range cg.List {
			if IsIgnoreDirective(c.Text) {
				m[fset.Position(c.Pos()).Line] = &ignoreEntry{pos: c.Pos()}
			}
		}
	}
	if file.Doc != nil {
		for _, c := range file.Doc.List {
			if IsIgnoreDirective(c.Text) {
				// File-level ignores are always considered used.
				m[fileLevel] = &ignoreEntry{pos: c.Pos(), used: true}
			}
		}
	}
	return m
}

// ShouldIgnore reports whether a report on line should be suppressed: the
// file is ignored, or the same or previous line has an ignore comment.
// The matching entry is marked as used.
func (m IgnoreMap) ShouldIgnore(line int) bool {
	for _, key := range [...]int{fileLevel, line, line - 1} {
		if entry, ok := m[key]; ok {
			entry.used = true
			return true
		}
	}
	return false
}

// UnusedIgnores returns the positions of line-level ignore directives that
// suppressed nothing, in source order.
func (m IgnoreMap) UnusedIgnores() []token.Pos {
	var unused []token.Pos
	for line, entry := range m {
		if line != fileLevel && !entry.used {
			unused = append(unused, entry.pos)
		}
	}
	slices.Sort(unused)
	return unused
}
