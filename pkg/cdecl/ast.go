// Package cdecl defines the C declaration AST consumed by the binding
// generator. It covers only what a binding generator needs from a header:
// top-level declarations, their specifier sequences, and their derived
// declarator chains. Function bodies, initializers and expressions are
// deliberately absent.
package cdecl

// Pos records where a declaration originated. File is the name of the
// header the declaration came from (tracked through preprocessor line
// markers); Row is the zero-based line in the preprocessed stream.
type Pos struct {
	File string
	Row  int
}

// Decl is a top-level declaration.
type Decl interface {
	implDecl()
	DeclPos() Pos
}

// Plain is an ordinary declaration: a specifier sequence followed by zero
// or more declarators. `struct Foo { ... };` appears as a Plain with no
// declarators; `typedef int foo;` as a Plain with IsTypedef set.
type Plain struct {
	Pos         Pos
	Specs       []Spec
	Declarators []Declarator
	IsTypedef   bool
	Text        string // one-line rendering of the original source
}

// FunDef is a full function definition (declaration with a body). The body
// itself is not retained; only the signature matters for binding output.
type FunDef struct {
	Pos        Pos
	Specs      []Spec
	Declarator Declarator
	Text       string
}

// Asm is a top-level assembly block. Never emitted.
type Asm struct {
	Pos Pos
}

func (Plain) implDecl()  {}
func (FunDef) implDecl() {}
func (Asm) implDecl()    {}

func (d Plain) DeclPos() Pos  { return d.Pos }
func (d FunDef) DeclPos() Pos { return d.Pos }
func (d Asm) DeclPos() Pos    { return d.Pos }

// Declarator is an identifier plus its chain of derived declarators. The
// chain is ordered innermost-first: for `int (*f)(void)` the chain is
// [Ptr, Fun]; for `int *f(void)` it is [Fun, Ptr].
type Declarator struct {
	Name    string
	Derived []Derived
}

// Derived is one derived-declarator step: pointer, array, or function.
type Derived interface {
	implDerived()
}

// Ptr is a pointer step.
type Ptr struct{}

// Arr is an array step. Size is -1 when the extent is absent or not a
// plain integer literal.
type Arr struct {
	Size int64
}

// Fun is a function step with its parameter list.
type Fun struct {
	Params   []Param
	Variadic bool
}

func (Ptr) implDerived() {}
func (Arr) implDerived() {}
func (Fun) implDerived() {}

// Param is one parameter declaration inside a function declarator.
type Param struct {
	Name    string
	Specs   []Spec
	Derived []Derived
}

// Spec is one base-type specifier. The set is closed: adding a variant
// forces every resolution site to handle it.
type Spec interface {
	implSpec()
}

// Primitive specifiers.
type (
	SpecVoid     struct{}
	SpecBool     struct{}
	SpecChar     struct{}
	SpecShort    struct{}
	SpecInt      struct{}
	SpecLong     struct{}
	SpecFloat    struct{}
	SpecDouble   struct{}
	SpecComplex  struct{}
	SpecSigned   struct{}
	SpecUnsigned struct{}
)

// SpecStruct is a struct or union specifier. HasBody distinguishes a
// definition (possibly with zero members) from a forward reference.
type SpecStruct struct {
	Union   bool
	Tag     string
	Members []Field
	HasBody bool
}

// SpecEnum is an enum specifier. Enumerators are constant names in
// declaration order; explicit values are not retained.
type SpecEnum struct {
	Tag         string
	Enumerators []string
	HasBody     bool
}

// SpecTypedefName references a typedef by name.
type SpecTypedefName struct {
	Name string
}

// SpecTypeOf covers typeof/macro type specifiers that carry no resolvable
// base kind of their own.
type SpecTypeOf struct{}

func (SpecVoid) implSpec()        {}
func (SpecBool) implSpec()        {}
func (SpecChar) implSpec()        {}
func (SpecShort) implSpec()       {}
func (SpecInt) implSpec()         {}
func (SpecLong) implSpec()        {}
func (SpecFloat) implSpec()       {}
func (SpecDouble) implSpec()      {}
func (SpecComplex) implSpec()     {}
func (SpecSigned) implSpec()      {}
func (SpecUnsigned) implSpec()    {}
func (SpecStruct) implSpec()      {}
func (SpecEnum) implSpec()        {}
func (SpecTypedefName) implSpec() {}
func (SpecTypeOf) implSpec()      {}

// Field is one member of a struct or union.
type Field struct {
	Name    string
	Specs   []Spec
	Derived []Derived
}
