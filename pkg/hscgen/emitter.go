package hscgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hscgen/hscgen/pkg/cdecl"
	"github.com/hscgen/hscgen/pkg/hsc"
)

// Emitter walks a translation unit's declarations once, left to right,
// and appends binding and helper lines to the accumulator. Declarations
// that originate in other headers are skipped, except that their typedefs
// are still recorded so later in-file declarations can resolve them.
type Emitter struct {
	acc     *hsc.Accumulator
	file    string
	binding *Resolver
	c       *Resolver
}

// NewEmitter builds an emitter for one translation unit. targetFile is the
// header being translated; matching is by base name because preprocessor
// line markers report paths as the preprocessor saw them.
func NewEmitter(acc *hsc.Accumulator, targetFile string) *Emitter {
	return &Emitter{
		acc:     acc,
		file:    filepath.Base(targetFile),
		binding: NewBindingResolver(acc.Env()),
		c:       NewCResolver(acc.Env()),
	}
}

// Walk processes the declaration sequence in order. Each declaration gets
// exactly one classification; the typedef environment carries state across
// declarations.
func (e *Emitter) Walk(decls []cdecl.Decl) {
	for _, d := range decls {
		switch d := d.(type) {
		case cdecl.Plain:
			e.emitPlain(d)
		case cdecl.FunDef:
			e.emitFunDef(d)
		case cdecl.Asm:
			// never emitted
		}
	}
}

func (e *Emitter) inFile(pos cdecl.Pos) bool {
	return pos.File == "" || filepath.Base(pos.File) == e.file
}

func (e *Emitter) emitPlain(d cdecl.Plain) {
	if len(d.Declarators) == 0 {
		if e.inFile(d.Pos) {
			e.comment(d.Text)
			e.typeDecl(d.Specs, "")
		}
		return
	}

	commented := false
	for _, dr := range d.Declarators {
		if len(dr.Derived) > 0 {
			if fun, ok := dr.Derived[0].(cdecl.Fun); ok {
				if e.inFile(d.Pos) {
					e.callable("#ccall", dr.Name, d.Specs, fun, dr.Derived[1:])
				}
				continue
			}
		}
		if e.inFile(d.Pos) {
			if !commented {
				e.comment(d.Text)
				commented = true
			}
			e.typeDecl(d.Specs, dr.Name)
		}
		// Typedefs are recorded regardless of the file filter: later
		// in-file declarations may reference aliases defined elsewhere.
		if d.IsTypedef {
			e.acc.Env().Define(dr.Name, e.binding.Signature(d.Specs, dr.Derived))
		}
	}
}

func (e *Emitter) emitFunDef(d cdecl.FunDef) {
	if !e.inFile(d.Pos) {
		return
	}
	dr := d.Declarator
	if len(dr.Derived) == 0 {
		return
	}
	fun, ok := dr.Derived[0].(cdecl.Fun)
	if !ok {
		return
	}
	e.callable("#cinline", dr.Name, d.Specs, fun, dr.Derived[1:])
	if dr.Name != "" {
		e.helper(dr.Name, d.Specs, dr.Derived)
	}
}

// callable emits a #ccall or #cinline line: arguments and the IO-wrapped
// return type joined by arrows.
func (e *Emitter) callable(marker, name string, specs []cdecl.Spec, fun cdecl.Fun, rest []cdecl.Derived) {
	args := e.binding.ParamSigs(fun.Params)
	ret := e.binding.Apply(e.binding.BaseType(specs), rest)
	sig := strings.Join(append(args, "IO ("+ret+")"), " -> ")
	e.acc.AddBinding(marker + " " + name + " , " + sig)
}

// helper emits the trampoline macro line for an inline function. The
// argument list and return type are re-rendered in C text because the
// binding grammar cannot express them.
func (e *Emitter) helper(name string, specs []cdecl.Spec, derived []cdecl.Derived) {
	base := e.c.BaseType(specs)
	args := e.c.Apply(base, derived)
	ret := e.c.Apply(base, derived[1:])

	n := len(e.binding.ParamSigs(derived[0].(cdecl.Fun).Params))
	argsPart := ""
	if args != "" {
		argsPart = ", " + args
	}
	if ret == "" {
		e.acc.AddHelper(fmt.Sprintf("BC_INLINE%dVOID(%s%s)", n, name, argsPart))
		return
	}
	e.acc.AddHelper(fmt.Sprintf("BC_INLINE%d(%s%s, %s)", n, name, argsPart, ret))
}

func (e *Emitter) comment(text string) {
	e.acc.AddBinding("{- " + text + " -}")
}

// typeDecl emits the structure of the first struct, union or enum
// specifier in the sequence. fallback names an anonymous aggregate, as
// with `typedef struct { ... } name`.
func (e *Emitter) typeDecl(specs []cdecl.Spec, fallback string) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case cdecl.SpecStruct:
			e.structDecl(s, fallback)
			return
		case cdecl.SpecEnum:
			e.enumDecl(s, fallback)
			return
		}
	}
}

func (e *Emitter) structDecl(s cdecl.SpecStruct, fallback string) {
	name := s.Tag
	if name == "" {
		name = fallback
	}
	if !s.HasBody {
		e.acc.AddBinding("#opaque_t " + name)
		return
	}
	e.acc.AddBinding("#starttype " + name)
	for _, m := range s.Members {
		if m.Name == "" {
			continue
		}
		if len(m.Derived) > 0 {
			if _, ok := m.Derived[0].(cdecl.Arr); ok {
				sig := e.binding.Signature(m.Specs, m.Derived[1:])
				e.acc.AddBinding("#array_field " + m.Name + " , " + sig)
				continue
			}
		}
		sig := e.binding.Signature(m.Specs, m.Derived)
		e.acc.AddBinding("#field " + m.Name + " , " + sig)
	}
	e.acc.AddBinding("#stoptype")
}

func (e *Emitter) enumDecl(s cdecl.SpecEnum, fallback string) {
	name := s.Tag
	if name == "" {
		name = fallback
	}
	e.acc.AddBinding("#integral_t " + name)
	for _, c := range s.Enumerators {
		e.acc.AddBinding("#num " + c)
	}
}
