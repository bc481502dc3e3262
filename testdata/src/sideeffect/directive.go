package sideeffect

//sideeffect:pure
func hash(x int) int { return x * 31 }

//sideeffect:read
func peek(p *int) int { return *p }

//sideeffect:write
func poke(p *int, v int) { *p = v }

func directives() {
	p := new(int)
	*p = 1
	sink = hash(2)
	v := peek(p) // want `call ordered after L14$`
	poke(p, v)   // want `call ordered after L16$`
}

func builtins() {
	m := make(map[string]int)
	m["a"] = 1
	sink = len(m)
	delete(m, "a") // want `call ordered after L22$`
}

func ignored() {
	counter = 1
	//sideeffect:ignore
	x := counter
	sink = counter // want `load ordered after L28$`
	counter = x    // sideeffect:ignore
}

func unusedIgnore() {
	//sideeffect:ignore // want `unused sideeffect:ignore directive`
	counter = 3
}
