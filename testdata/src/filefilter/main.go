// Package filefilter tests file filtering functionality.
// Generated files are always skipped (see generated.go).
package filefilter

var counter int

func reported() {
	counter = 1
	_ = counter // want `load ordered after L8$`
}
