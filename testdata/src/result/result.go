// Package result is inspected through the Analyzer result.
package result

var counter, sink int

func writeReadWrite() {
	counter = 1
	x := counter
	counter = 2
	sink = x + counter
}

func withClosure() {
	n := 0
	inc := func() { n++ }
	inc()
	sink = n
}

func empty() {}
