package directive

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"sync"

	"golang.org/x/tools/go/ssa"
)

// FuncKey identifies a function carrying an effect directive.
// This provides a structured way to match AST declarations with SSA functions,
// avoiding fragile string comparison with fn.String().
type FuncKey struct {
	PkgPath      string // Package path (e.g., "github.com/example/pkg")
	ReceiverType string // Receiver type name without pointer/package (e.g., "Buffer"), empty for functions
	FuncName     string // Function or method name
}

// FuncSet maps functions to their directive kinds, with caching for
// functions declared in other packages.
//
// Lookup is safe for concurrent use.
type FuncSet struct {
	known map[FuncKey]Kind
	fset  *token.FileSet

	mu    sync.Mutex
	cache map[string]*ast.File // cached parsed files, nil on parse failure
}

// NewFuncSet creates an empty FuncSet. fset is used to locate and parse the
// source of functions from other packages; it may be nil.
func NewFuncSet(fset *token.FileSet) *FuncSet {
	return &FuncSet{
		known: make(map[FuncKey]Kind),
		fset:  fset,
		cache: make(map[string]*ast.File),
	}
}

// Add records the directive kind of a function. Add must not be called
// concurrently with Lookup.
func (s *FuncSet) Add(key FuncKey, kind Kind) {
	if s != nil && kind != None {
		s.known[key] = kind
	}
}

// AddAll records every entry of m.
func (s *FuncSet) AddAll(m map[FuncKey]Kind) {
	for key, kind := range m {
		s.Add(key, kind)
	}
}

// Len returns the number of recorded functions.
func (s *FuncSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.known)
}

// Lookup returns the directive kind of fn, or None.
//
// Lookup order:
//  1. Functions recorded with Add (the packages under analysis)
//  2. The doc comment of fn's own syntax
//  3. The doc comment found by parsing fn's source file (other packages)
func (s *FuncSet) Lookup(fn *ssa.Function) Kind {
	if fn == nil {
		return None
	}
	key := keyOf(fn)

	if s != nil {
		if kind, ok := s.known[key]; ok {
			return kind
		}
	}

	if decl, ok := fn.Syntax().(*ast.FuncDecl); ok {
		return docKind(decl.Doc)
	}

	if s == nil || s.fset == nil {
		return None
	}
	obj := fn.Object()
	if obj == nil || !obj.Pos().IsValid() {
		return None
	}
	filename := s.fset.Position(obj.Pos()).Filename
	if filename == "" {
		return None
	}
	file := s.parseFile(filename)
	if file == nil {
		return None
	}
	return kindInFile(file, key.FuncName, key.ReceiverType)
}

func keyOf(fn *ssa.Function) FuncKey {
	if origin := fn.Origin(); origin != nil {
		fn = origin
	}
	key := FuncKey{FuncName: fn.Name()}
	if fn.Pkg != nil && fn.Pkg.Pkg != nil {
		key.PkgPath = fn.Pkg.Pkg.Path()
	} else if obj := fn.Object(); obj != nil && obj.Pkg() != nil {
		key.PkgPath = obj.Pkg().Path()
	}
	if sig := fn.Signature; sig != nil && sig.Recv() != nil {
		key.ReceiverType = formatReceiverType(sig.Recv().Type())
	}
	return key
}

// parseFile parses a Go source file with caching.
func (s *FuncSet) parseFile(filename string) *ast.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file, ok := s.cache[filename]; ok {
		return file
	}
	// A private FileSet keeps parsing off the shared one.
	file, err := parser.ParseFile(token.NewFileSet(), filename, nil, parser.ParseComments)
	if err != nil {
		file = nil
	}
	s.cache[filename] = file
	return file
}

// kindInFile finds the declaration of a function in a file and returns its
// directive kind.
func kindInFile(file *ast.File, funcName, receiverType string) Kind {
	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Name.Name != funcName {
			continue
		}
		if receiverOf(funcDecl) != receiverType {
			continue
		}
		return docKind(funcDecl.Doc)
	}
	return None
}

// docKind returns the first effect directive in a doc comment.
func docKind(doc *ast.CommentGroup) Kind {
	if doc == nil {
		return None
	}
	for _, c := range doc.List {
		if kind := ParseKind(c.Text); kind != None {
			return kind
		}
	}
	return None
}

// BuildFunctionSet collects the effect directives of one file.
//
// Example:
//
//	//sideeffect:pure
//	func hash(b []byte) uint64 { ... }
//	→ FuncKey{PkgPath: "...", FuncName: "hash"}: Pure
//
//	//sideeffect:write
//	func (c *Cache) Put(k string, v []byte) { ... }
//	→ FuncKey{PkgPath: "...", ReceiverType: "Cache", FuncName: "Put"}: Write
func BuildFunctionSet(file *ast.File, pkgPath string) map[FuncKey]Kind {
	result := make(map[FuncKey]Kind)
	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		kind := docKind(funcDecl.Doc)
		if kind == None {
			continue
		}
		key := FuncKey{
			PkgPath:      pkgPath,
			ReceiverType: receiverOf(funcDecl),
			FuncName:     funcDecl.Name.Name,
		}
		result[key] = kind
	}
	return result
}

// =============================================================================
// Receiver Names
// =============================================================================

func receiverOf(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}
	return stripPointer(exprToString(decl.Recv.List[0].Type))
}

// formatReceiverType extracts the base type name from a receiver type.
// Returns just the type name without pointer (e.g., "Buffer" for both
// *Buffer and Buffer). Go doesn't allow both pointer and value receivers
// with the same method name, so the pointer is irrelevant for matching.
func formatReceiverType(t types.Type) string {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if named, ok := t.(*types.Named); ok {
		return named.Obj().Name()
	}
	return ""
}

func stripPointer(s string) string {
	return strings.TrimPrefix(s, "*")
}

// exprToString converts an ast.Expr to a string representation.
// For generic types like Set[T], returns just the base type name.
func exprToString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return "*" + exprToString(e.X)
	case *ast.SelectorExpr:
		return exprToString(e.X) + "." + e.Sel.Name
	case *ast.IndexExpr:
		return exprToString(e.X)
	case *ast.IndexListExpr:
		return exprToString(e.X)
	default:
		return ""
	}
}
