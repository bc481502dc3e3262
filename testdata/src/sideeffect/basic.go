package sideeffect

var counter, sink int

func opaque() {}

// =============================================================================
// Known resources
// =============================================================================

func writeReadWrite() {
	counter = 1
	x := counter       // want `load ordered after L12$`
	counter = 2        // want `store ordered after L13$`
	sink = x + counter // want `load ordered after L14$`
}

func readsAreNotOrdered() {
	counter = 1
	a := counter    // want `load ordered after L19$`
	b := counter    // want `load ordered after L19$`
	counter = a + b // want `store ordered after L20, L21$`
}

func pointers() {
	p := new(int)
	*p = 1
	v := *p    // want `load ordered after L27$`
	*p = v + 1 // want `store ordered after L28$`
	sink = *p  // want `load ordered after L29$`
}

func independent() {
	a, b := new(int), new(int)
	*a = 1
	*b = 2
	*a = *b // want `load ordered after L36$` `store ordered after L35$`
}

func maps() {
	m := make(map[string]int)
	m["a"] = 1
	v := m["a"]        // want `map lookup ordered after L42$`
	m["b"] = v         // want `map update ordered after L43$`
	for k := range m { // want `range ordered after L44$`
		sink = len(k)
	}
}

func channels() {
	ch := make(chan int, 1)
	ch <- 1
	v := <-ch // want `receive ordered after L52$`
	sink = v
}

// =============================================================================
// Unknown effects
// =============================================================================

func barrier() {
	counter = 1
	opaque()     // want `call ordered after L62$`
	x := counter // want `load ordered after L63$`
	sink = x     // want `store ordered after L63$`
}

func barrierAfterReads() {
	x := counter
	y := sink
	opaque()        // want `call ordered after L69, L70$`
	counter = x + y // want `store ordered after L71$`
}

func unknownRead(q *int) {
	p := new(int)
	*p = 1
	a := *q // want `load ordered after L77$`
	*p = a  // want `store ordered after L77, L78$`
}

func closure() {
	n := 0
	inc := func() { n++ } // want `store ordered after L84$`
	inc()                 // want `call ordered after L83$`
	sink = n              // want `load ordered after L85$` `store ordered after L85$`
}
