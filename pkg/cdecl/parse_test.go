package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) Decl {
	t.Helper()
	decls, err := Parse([]byte(src), nil)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	return decls[0]
}

func TestParseFunctionPrototype(t *testing.T) {
	d := parseOne(t, "int add(int a, long b);")

	plain, ok := d.(Plain)
	require.True(t, ok)
	assert.False(t, plain.IsTypedef)
	require.Equal(t, []Spec{SpecInt{}}, plain.Specs)

	require.Len(t, plain.Declarators, 1)
	dr := plain.Declarators[0]
	assert.Equal(t, "add", dr.Name)
	require.Len(t, dr.Derived, 1)

	fun, ok := dr.Derived[0].(Fun)
	require.True(t, ok)
	assert.False(t, fun.Variadic)
	require.Len(t, fun.Params, 2)
	assert.Equal(t, "a", fun.Params[0].Name)
	assert.Equal(t, []Spec{SpecInt{}}, fun.Params[0].Specs)
	assert.Equal(t, "b", fun.Params[1].Name)
	assert.Equal(t, []Spec{SpecLong{}}, fun.Params[1].Specs)
}

func TestParseVariadicPrototype(t *testing.T) {
	d := parseOne(t, "int printf(const char *fmt, ...);")

	plain := d.(Plain)
	fun := plain.Declarators[0].Derived[0].(Fun)
	assert.True(t, fun.Variadic)
	require.Len(t, fun.Params, 1)
	assert.Equal(t, []Derived{Ptr{}}, fun.Params[0].Derived)
}

func TestParsePointerChainOrder(t *testing.T) {
	// `int (*f)(void)` is a pointer to function: chain [Ptr, Fun].
	d := parseOne(t, "int (*f)(void);")
	dr := d.(Plain).Declarators[0]
	assert.Equal(t, "f", dr.Name)
	require.Len(t, dr.Derived, 2)
	assert.IsType(t, Ptr{}, dr.Derived[0])
	assert.IsType(t, Fun{}, dr.Derived[1])

	// `int *f(void)` is a function returning pointer: chain [Fun, Ptr].
	d = parseOne(t, "int *f(void);")
	dr = d.(Plain).Declarators[0]
	require.Len(t, dr.Derived, 2)
	assert.IsType(t, Fun{}, dr.Derived[0])
	assert.IsType(t, Ptr{}, dr.Derived[1])
}

func TestParseTypedef(t *testing.T) {
	d := parseOne(t, "typedef unsigned long size_type;")

	plain := d.(Plain)
	assert.True(t, plain.IsTypedef)
	assert.Equal(t, []Spec{SpecUnsigned{}, SpecLong{}}, plain.Specs)
	require.Len(t, plain.Declarators, 1)
	assert.Equal(t, "size_type", plain.Declarators[0].Name)
	assert.Empty(t, plain.Declarators[0].Derived)
}

func TestParseStructDefinition(t *testing.T) {
	d := parseOne(t, `struct point { int x; int y; char *label; };`)

	plain := d.(Plain)
	assert.Empty(t, plain.Declarators)
	require.Len(t, plain.Specs, 1)

	s, ok := plain.Specs[0].(SpecStruct)
	require.True(t, ok)
	assert.False(t, s.Union)
	assert.Equal(t, "point", s.Tag)
	assert.True(t, s.HasBody)
	require.Len(t, s.Members, 3)
	assert.Equal(t, "x", s.Members[0].Name)
	assert.Equal(t, "label", s.Members[2].Name)
	assert.Equal(t, []Derived{Ptr{}}, s.Members[2].Derived)
}

func TestParseOpaqueStructTypedef(t *testing.T) {
	d := parseOne(t, "typedef struct widget widget_t;")

	plain := d.(Plain)
	assert.True(t, plain.IsTypedef)
	s := plain.Specs[0].(SpecStruct)
	assert.Equal(t, "widget", s.Tag)
	assert.False(t, s.HasBody)
}

func TestParseUnion(t *testing.T) {
	d := parseOne(t, "union value { int i; double d; };")

	s := d.(Plain).Specs[0].(SpecStruct)
	assert.True(t, s.Union)
	assert.Equal(t, "value", s.Tag)
	require.Len(t, s.Members, 2)
}

func TestParseEnum(t *testing.T) {
	d := parseOne(t, "enum color { RED, GREEN = 5, BLUE };")

	e := d.(Plain).Specs[0].(SpecEnum)
	assert.Equal(t, "color", e.Tag)
	assert.True(t, e.HasBody)
	assert.Equal(t, []string{"RED", "GREEN", "BLUE"}, e.Enumerators)
}

func TestParseArrayMember(t *testing.T) {
	d := parseOne(t, "struct buf { char data[64]; int rest[]; };")

	s := d.(Plain).Specs[0].(SpecStruct)
	require.Len(t, s.Members, 2)
	arr := s.Members[0].Derived[0].(Arr)
	assert.Equal(t, int64(64), arr.Size)
	arr = s.Members[1].Derived[0].(Arr)
	assert.Equal(t, int64(-1), arr.Size)
}

func TestParseFunctionDefinition(t *testing.T) {
	d := parseOne(t, "static inline int twice(int v) { return v * 2; }")

	def, ok := d.(FunDef)
	require.True(t, ok)
	assert.Equal(t, []Spec{SpecInt{}}, def.Specs)
	assert.Equal(t, "twice", def.Declarator.Name)
	require.Len(t, def.Declarator.Derived, 1)
	fun := def.Declarator.Derived[0].(Fun)
	require.Len(t, fun.Params, 1)
	assert.Equal(t, "v", fun.Params[0].Name)
}

func TestParseMultipleDeclarators(t *testing.T) {
	d := parseOne(t, "typedef int alpha, *beta;")

	plain := d.(Plain)
	require.Len(t, plain.Declarators, 2)
	assert.Equal(t, "alpha", plain.Declarators[0].Name)
	assert.Empty(t, plain.Declarators[0].Derived)
	assert.Equal(t, "beta", plain.Declarators[1].Name)
	assert.Equal(t, []Derived{Ptr{}}, plain.Declarators[1].Derived)
}

func TestParseFixedWidthAliasAsTypedefName(t *testing.T) {
	d := parseOne(t, "size_t length;")

	plain := d.(Plain)
	require.Len(t, plain.Specs, 1)
	assert.Equal(t, SpecTypedefName{Name: "size_t"}, plain.Specs[0])
}

func TestParseOriginMapping(t *testing.T) {
	src := "int first;\nint second;\n"
	origin := func(row int) string {
		if row == 0 {
			return "a.h"
		}
		return "b.h"
	}

	decls, err := Parse([]byte(src), origin)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, Pos{File: "a.h", Row: 0}, decls[0].DeclPos())
	assert.Equal(t, Pos{File: "b.h", Row: 1}, decls[1].DeclPos())
}

func TestParsePrettyText(t *testing.T) {
	d := parseOne(t, "typedef  struct   widget\n   widget_t ;")
	assert.Equal(t, "typedef struct widget widget_t ;", d.(Plain).Text)
}

func TestParseSkipsPreprocessorLeftovers(t *testing.T) {
	decls, err := Parse([]byte(";\n\nint x;\n"), nil)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "x", decls[0].(Plain).Declarators[0].Name)
}
