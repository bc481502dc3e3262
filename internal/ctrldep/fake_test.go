package ctrldep

import (
	"slices"
	"testing"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// =============================================================================
// Fake Program Representation
// =============================================================================

type fakeValue struct {
	ids     []uint64
	unknown bool
}

type fakeInstr struct {
	name    string
	kind    AccessKind
	values  []fakeValue
	pure    bool
	decl    bool
	regions []Scope[*fakeInstr]
}

func (i *fakeInstr) String() string { return i.name }

type fakeFunc struct {
	name string
	body Scope[*fakeInstr]
}

func (f *fakeFunc) Body() Scope[*fakeInstr] { return f.body }
func (f *fakeFunc) Regions(i *fakeInstr) []Scope[*fakeInstr] { return i.regions }
func (f *fakeFunc) ResourceValues(i *fakeInstr) []fakeValue { return i.values }
func (f *fakeFunc) String() string { return f.name }

// fakeOracle answers every oracle question from the fake instructions.
type fakeOracle struct{}

func (fakeOracle) IsUnknown(v fakeValue) bool { return v.unknown }
func (fakeOracle) ResourceIDs(v fakeValue) []uint64 { return v.ids }
func (fakeOracle) AccessKind(i *fakeInstr) AccessKind { return i.kind }
func (fakeOracle) IsSideEffectFree(i *fakeInstr) bool { return i.pure }
func (fakeOracle) IsDeclaration(i *fakeInstr, _ AliasOracle[fakeValue]) bool {
	return i.decl
}

type fakeModule struct {
	funcs      []*fakeFunc
	aliasBuilt int
}

func (m *fakeModule) Functions() []Function[*fakeInstr, fakeValue] {
	out := make([]Function[*fakeInstr, fakeValue], len(m.funcs))
	for i, fn := range m.funcs {
		out[i] = fn
	}
	return out
}

func (m *fakeModule) NewAliasAnalysis() AliasAnalysis[*fakeInstr, fakeValue] {
	m.aliasBuilt++
	return fakeAliases{}
}

type fakeAliases struct{}

func (fakeAliases) ForFunction(Function[*fakeInstr, fakeValue]) AliasOracle[fakeValue] {
	return fakeOracle{}
}

// =============================================================================
// Instruction Builders
// =============================================================================

func read(name string, ids ...uint64) *fakeInstr {
	return &fakeInstr{name: name, kind: AccessRead, values: []fakeValue{{ids: ids}}}
}

func write(name string, ids ...uint64) *fakeInstr {
	return &fakeInstr{name: name, kind: AccessWrite, values: []fakeValue{{ids: ids}}}
}

func unknownRead(name string) *fakeInstr {
	return &fakeInstr{name: name, kind: AccessRead, values: []fakeValue{{unknown: true}}}
}

func unknownWrite(name string) *fakeInstr {
	return &fakeInstr{name: name, kind: AccessWrite, values: []fakeValue{{unknown: true}}}
}

// opaque is an effectful instruction without any access info.
func opaque(name string) *fakeInstr {
	return &fakeInstr{name: name}
}

func pure(name string) *fakeInstr {
	return &fakeInstr{name: name, pure: true}
}

func declare(name string, id uint64) *fakeInstr {
	return &fakeInstr{name: name, decl: true, values: []fakeValue{{ids: []uint64{id}}}}
}

func analyze(t *testing.T, body ...*fakeInstr) *FunctionAnalysis[*fakeInstr, fakeValue] {
	t.Helper()
	fn := &fakeFunc{name: t.Name(), body: body}
	a := NewFunctionAnalysis[*fakeInstr, fakeValue](fn, fakeOracle{}, fakeOracle{})
	checkInvariants(t, a)
	return a
}

func names(instrs []*fakeInstr) []string {
	if len(instrs) == 0 {
		return nil
	}
	out := make([]string, len(instrs))
	for i, instr := range instrs {
		out[i] = instr.name
	}
	return out
}

// checkInvariants verifies ordering, dedup, mirroring and acyclicity of the
// whole graph.
func checkInvariants(t *testing.T, a *FunctionAnalysis[*fakeInstr, fakeValue]) {
	t.Helper()
	g := simple.NewDirectedGraph()
	for _, instr := range a.Instructions() {
		pos, _ := a.Position(instr)
		for _, list := range [][]*fakeInstr{a.Predecessors(instr, nil), a.Successors(instr, nil)} {
			last := -1
			for _, other := range list {
				p, ok := a.Position(other)
				if !ok {
					t.Fatalf("%s: neighbour %s has no position", instr, other)
				}
				if p <= last {
					t.Errorf("%s: neighbours not strictly increasing: %v", instr, names(list))
				}
				last = p
			}
		}
		for _, pred := range a.Predecessors(instr, nil) {
			if !slices.Contains(a.Successors(pred, nil), instr) {
				t.Errorf("%s is a predecessor of %s but not mirrored in successors", pred, instr)
			}
			predPos, _ := a.Position(pred)
			g.SetEdge(simple.Edge{F: simple.Node(predPos), T: simple.Node(pos)})
		}
		for _, succ := range a.Successors(instr, nil) {
			if !slices.Contains(a.Predecessors(succ, nil), instr) {
				t.Errorf("%s is a successor of %s but not mirrored in predecessors", succ, instr)
			}
		}
	}
	if _, err := topo.Sort(g); err != nil {
		t.Errorf("graph has a cycle: %v", err)
	}
}
