// sideeffect:ignore
// Package ignorefile tests file-level ignore directives.
package ignorefile

var counter int

func silenced() {
	counter = 1
	x := counter
	counter = x + 1
}
