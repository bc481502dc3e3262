// Package config is analyzed with the effect table in testdata/effects.yaml.
package config

func lookup(p *int) int { return *p }

func useTable() {
	p := new(int)
	*p = 1
	a := lookup(p) // want `call ordered after L8$`
	b := lookup(p) // want `call ordered after L8$`
	*p = a + b     // want `store ordered after L9, L10$`
}
