package hscgen

import (
	"github.com/hscgen/hscgen/pkg/cdecl"
	"github.com/hscgen/hscgen/pkg/hsc"
)

// Resolver turns a base-type specifier sequence plus a derived-declarator
// chain into a signature string. Resolution is total: every input yields a
// signature, at worst an empty one (void-equivalent) or a bracketed
// typedef placeholder.
type Resolver struct {
	st  style
	env *hsc.TypeEnv
}

// NewBindingResolver resolves into the binding-DSL signature grammar.
func NewBindingResolver(env *hsc.TypeEnv) *Resolver {
	return &Resolver{st: bindingStyle{}, env: env}
}

// NewCResolver resolves into plain C type text, used for helper macros.
func NewCResolver(env *hsc.TypeEnv) *Resolver {
	return &Resolver{st: cStyle{}, env: env}
}

// Signature resolves a full type: base specifiers with the whole chain
// applied.
func (r *Resolver) Signature(specs []cdecl.Spec, derived []cdecl.Derived) string {
	return r.Apply(r.BaseType(specs), derived)
}

// BaseType scans the specifier sequence left to right. Signedness
// modifiers accumulate until the first concrete base kind, which resolves
// immediately; a sequence of only modifiers falls back to the default
// integer kind, and an empty sequence is void-equivalent.
func (r *Resolver) BaseType(specs []cdecl.Spec) string {
	sign := signNone
	for _, spec := range specs {
		switch s := spec.(type) {
		case cdecl.SpecSigned:
			sign = signSigned
		case cdecl.SpecUnsigned:
			sign = signUnsigned
		case cdecl.SpecVoid:
			return r.st.primitive(kindVoid, sign)
		case cdecl.SpecBool:
			return r.st.primitive(kindBool, sign)
		case cdecl.SpecChar:
			return r.st.primitive(kindChar, sign)
		case cdecl.SpecShort:
			return r.st.primitive(kindShort, sign)
		case cdecl.SpecInt:
			return r.st.primitive(kindInt, sign)
		case cdecl.SpecLong:
			return r.st.primitive(kindLong, sign)
		case cdecl.SpecFloat:
			return r.st.primitive(kindFloat, sign)
		case cdecl.SpecDouble:
			return r.st.primitive(kindDouble, sign)
		case cdecl.SpecComplex:
			return r.st.primitive(kindComplex, sign)
		case cdecl.SpecTypedefName:
			return r.st.typedefRef(s.Name, r.env)
		case cdecl.SpecStruct, cdecl.SpecEnum, cdecl.SpecTypeOf:
			return r.st.aggregate(spec)
		}
	}
	if sign != signNone {
		return r.st.bareSign(sign)
	}
	return ""
}

// Apply folds the derived-declarator chain over a resolved base type. The
// chain is innermost-first, so the head of the slice is the modifier
// closest to the declared identifier.
func (r *Resolver) Apply(base string, ds []cdecl.Derived) string {
	if len(ds) == 0 {
		return base
	}
	switch d := ds[0].(type) {
	case cdecl.Ptr:
		if len(ds) > 1 {
			if _, ok := ds[1].(cdecl.Fun); ok {
				// Pointer-to-function: the pointer is consumed before
				// the function step so the callable wrapper nests
				// correctly.
				return r.Apply(r.st.funPtrBase(base), ds[1:])
			}
			return r.st.pointer(r.Apply(base, ds[1:]))
		}
		return r.st.trailingPointer(base)
	case cdecl.Arr:
		return r.st.array(r.Apply(base, ds[1:]))
	case cdecl.Fun:
		return r.st.function(r.ParamSigs(d.Params), r.Apply(base, ds[1:]))
	}
	return base
}

// ParamSigs resolves each parameter to its signature, dropping
// void-equivalent entries so `f(void)` reads as a zero-argument callable.
func (r *Resolver) ParamSigs(params []cdecl.Param) []string {
	var sigs []string
	for _, p := range params {
		if sig := r.Signature(p.Specs, p.Derived); sig != "" {
			sigs = append(sigs, sig)
		}
	}
	return sigs
}
