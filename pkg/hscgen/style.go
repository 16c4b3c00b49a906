// Package hscgen turns C declarations into binding-DSL lines. The resolver
// renders type signatures in two dialects through a shared algorithm; the
// emitter classifies declarations and appends output through the
// accumulator.
package hscgen

import (
	"strings"

	"github.com/hscgen/hscgen/pkg/cdecl"
	"github.com/hscgen/hscgen/pkg/hsc"
)

type signedness int

const (
	signNone signedness = iota
	signSigned
	signUnsigned
)

type baseKind int

const (
	kindVoid baseKind = iota
	kindBool
	kindChar
	kindShort
	kindInt
	kindLong
	kindFloat
	kindDouble
	kindComplex
)

// style is the formatting strategy behind the resolver. One resolution
// algorithm serves both output dialects; only these rendering hooks differ.
type style interface {
	primitive(k baseKind, s signedness) string
	bareSign(s signedness) string
	typedefRef(name string, env *hsc.TypeEnv) string
	aggregate(spec cdecl.Spec) string
	trailingPointer(base string) string
	pointer(inner string) string
	array(inner string) string
	funPtrBase(base string) string
	function(args []string, ret string) string
}

// bindingStyle renders the binding-DSL signature grammar: Ptr, FunPtr, IO,
// CString, and the Foreign.C primitive names.
type bindingStyle struct{}

func (bindingStyle) primitive(k baseKind, s signedness) string {
	switch k {
	case kindVoid:
		return ""
	case kindBool:
		return "CBool"
	case kindChar:
		switch s {
		case signSigned:
			return "CSChar"
		case signUnsigned:
			return "CUChar"
		}
		return "CChar"
	case kindShort:
		if s == signUnsigned {
			return "CUShort"
		}
		return "CShort"
	case kindInt:
		if s == signUnsigned {
			return "CUInt"
		}
		return "CInt"
	case kindLong:
		if s == signUnsigned {
			return "CULong"
		}
		return "CLong"
	case kindFloat:
		return "CFloat"
	case kindDouble:
		return "CDouble"
	case kindComplex:
		return ""
	}
	return ""
}

func (bindingStyle) bareSign(s signedness) string {
	if s == signUnsigned {
		return "CUInt"
	}
	return "CInt"
}

// typedefRef resolves an alias against the environment; an alias defined
// later in the translation unit (or never) renders as a bracketed
// placeholder so the gap is visible in the generated file.
func (bindingStyle) typedefRef(name string, env *hsc.TypeEnv) string {
	if sig, ok := env.Lookup(name); ok {
		return sig
	}
	return "<" + name + ">"
}

// Struct, union and enum structure is emitted by the classifier, never
// inlined into a signature.
func (bindingStyle) aggregate(cdecl.Spec) string { return "" }

func (bindingStyle) trailingPointer(base string) string {
	switch base {
	case "":
		return "Ptr ()"
	case "CChar":
		return "CString"
	}
	return "Ptr " + base
}

func (bindingStyle) pointer(inner string) string { return "Ptr (" + inner + ")" }
func (bindingStyle) array(inner string) string { return "Ptr (" + inner + ")" }

// The pointer of a pointer-to-function pair is absorbed here; the FunPtr
// wrapper produced by the function step is that pointer.
func (bindingStyle) funPtrBase(base string) string { return base }

func (bindingStyle) function(args []string, ret string) string {
	return "FunPtr (" + strings.Join(append(args, "IO ("+ret+")"), " -> ") + ")"
}

// cStyle renders plain C type names, used only for the helper-macro
// argument and return-type text.
type cStyle struct{}

func (cStyle) primitive(k baseKind, s signedness) string {
	switch k {
	case kindVoid:
		return ""
	case kindBool:
		return "_Bool"
	case kindChar:
		switch s {
		case signSigned:
			return "signed char"
		case signUnsigned:
			return "unsigned char"
		}
		return "char"
	case kindShort:
		if s == signUnsigned {
			return "unsigned short"
		}
		return "short"
	case kindInt:
		if s == signUnsigned {
			return "unsigned int"
		}
		return "int"
	case kindLong:
		if s == signUnsigned {
			return "unsigned long"
		}
		return "long"
	case kindFloat:
		return "float"
	case kindDouble:
		return "double"
	case kindComplex:
		return "_Complex"
	}
	return ""
}

func (cStyle) bareSign(s signedness) string {
	if s == signUnsigned {
		return "unsigned"
	}
	return "signed"
}

// C text keeps the alias name as written; the helper macro compiles in a
// context where the typedef is in scope.
func (cStyle) typedefRef(name string, _ *hsc.TypeEnv) string { return name }

func (cStyle) aggregate(spec cdecl.Spec) string {
	switch s := spec.(type) {
	case cdecl.SpecStruct:
		kw := "struct"
		if s.Union {
			kw = "union"
		}
		if s.Tag == "" {
			return kw
		}
		return kw + " " + s.Tag
	case cdecl.SpecEnum:
		if s.Tag == "" {
			return "enum"
		}
		return "enum " + s.Tag
	}
	return ""
}

func (cStyle) trailingPointer(base string) string {
	if base == "" {
		return "void *"
	}
	return base + "*"
}

func (cStyle) pointer(inner string) string   { return inner + " *" }
func (cStyle) array(inner string) string     { return inner + "[]" }
func (cStyle) funPtrBase(base string) string { return base + " *" }
func (cStyle) function(args []string, _ string) string {
	return strings.Join(args, ", ")
}
