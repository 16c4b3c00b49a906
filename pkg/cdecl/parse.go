package cdecl

import (
	"errors"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// OriginFunc maps a zero-based row in the parsed stream to the name of the
// header that row came from. A nil OriginFunc leaves every Pos.File empty,
// which the emitter treats as "belongs to the file under translation".
type OriginFunc func(row int) string

// Parse runs the tree-sitter C grammar over source and converts every
// top-level node it understands into a Decl. Unknown node kinds are
// skipped; a failed parse is the only error.
func Parse(source []byte, origin OriginFunc) ([]Decl, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(sitter.NewLanguage(c.Language()))

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errors.New("cdecl: tree-sitter could not parse input")
	}
	defer tree.Close()

	var decls []Decl
	root := tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		if d := topLevel(node, source, origin); d != nil {
			decls = append(decls, d)
		}
	}
	return decls, nil
}

// topLevel converts one child of the translation unit, or returns nil for
// node kinds that carry no declaration.
func topLevel(node *sitter.Node, source []byte, origin OriginFunc) Decl {
	pos := posOf(node, origin)
	switch node.Kind() {
	case "declaration":
		return plainDecl(node, source, pos, false)
	case "type_definition":
		return plainDecl(node, source, pos, true)
	case "function_definition":
		return funDef(node, source, pos)
	case "struct_specifier", "union_specifier", "enum_specifier":
		// Bare `struct Foo { ... };` at file scope.
		return Plain{
			Pos:   pos,
			Specs: specsFor(node, source),
			Text:  prettyText(node, source),
		}
	case "gnu_asm_statement":
		return Asm{Pos: pos}
	case "expression_statement":
		if findChildByKind(node, "gnu_asm_expression") != nil {
			return Asm{Pos: pos}
		}
		return nil
	default:
		return nil
	}
}

func plainDecl(node *sitter.Node, source []byte, pos Pos, isTypedef bool) Decl {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}

	d := Plain{
		Pos:       pos,
		Specs:     specsFor(typeNode, source),
		IsTypedef: isTypedef || hasStorageClass(node, source, "typedef"),
		Text:      prettyText(node, source),
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.StartByte() == typeNode.StartByte() {
			continue
		}
		if isDeclaratorKind(child.Kind()) {
			d.Declarators = append(d.Declarators, buildDeclarator(child, source))
		}
	}
	return d
}

func funDef(node *sitter.Node, source []byte, pos Pos) Decl {
	typeNode := node.ChildByFieldName("type")
	declNode := node.ChildByFieldName("declarator")
	if typeNode == nil || declNode == nil {
		return nil
	}
	return FunDef{
		Pos:        pos,
		Specs:      specsFor(typeNode, source),
		Declarator: buildDeclarator(declNode, source),
		Text:       prettyText(typeNode, source) + " " + prettyText(declNode, source),
	}
}

// specsFor flattens a tree-sitter type node into the specifier sequence.
func specsFor(node *sitter.Node, source []byte) []Spec {
	switch node.Kind() {
	case "primitive_type":
		return primitiveSpecs(nodeText(node, source))

	case "sized_type_specifier":
		// `unsigned long x` and friends: modifier tokens are direct
		// children, the optional base type is the "type" field.
		var specs []Spec
		for i := uint(0); i < node.ChildCount(); i++ {
			switch node.Child(i).Kind() {
			case "signed":
				specs = append(specs, SpecSigned{})
			case "unsigned":
				specs = append(specs, SpecUnsigned{})
			case "long":
				specs = append(specs, SpecLong{})
			case "short":
				specs = append(specs, SpecShort{})
			}
		}
		if base := node.ChildByFieldName("type"); base != nil {
			specs = append(specs, specsFor(base, source)...)
		}
		return specs

	case "struct_specifier", "union_specifier":
		return []Spec{structSpec(node, source)}

	case "enum_specifier":
		return []Spec{enumSpec(node, source)}

	case "type_identifier":
		return []Spec{SpecTypedefName{Name: nodeText(node, source)}}

	case "macro_type_specifier":
		return []Spec{SpecTypeOf{}}

	default:
		return nil
	}
}

// primitiveSpecs maps a primitive_type spelling. Spellings outside the
// core C kinds (size_t, int32_t, ...) are treated as typedef references
// and resolved through the typedef environment like any other alias.
func primitiveSpecs(text string) []Spec {
	switch text {
	case "void":
		return []Spec{SpecVoid{}}
	case "bool", "_Bool":
		return []Spec{SpecBool{}}
	case "char":
		return []Spec{SpecChar{}}
	case "short":
		return []Spec{SpecShort{}}
	case "int":
		return []Spec{SpecInt{}}
	case "long":
		return []Spec{SpecLong{}}
	case "float":
		return []Spec{SpecFloat{}}
	case "double":
		return []Spec{SpecDouble{}}
	case "_Complex", "complex":
		return []Spec{SpecComplex{}}
	default:
		return []Spec{SpecTypedefName{Name: text}}
	}
}

func structSpec(node *sitter.Node, source []byte) SpecStruct {
	s := SpecStruct{Union: node.Kind() == "union_specifier"}
	if name := node.ChildByFieldName("name"); name != nil {
		s.Tag = nodeText(name, source)
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return s
	}
	s.HasBody = true
	for i := uint(0); i < body.ChildCount(); i++ {
		field := body.Child(i)
		if field.Kind() != "field_declaration" {
			continue
		}
		typeNode := field.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		fieldSpecs := specsFor(typeNode, source)
		for j := uint(0); j < field.ChildCount(); j++ {
			child := field.Child(j)
			if child.StartByte() == typeNode.StartByte() || !isDeclaratorKind(child.Kind()) {
				continue
			}
			dr := buildDeclarator(child, source)
			s.Members = append(s.Members, Field{
				Name:    dr.Name,
				Specs:   fieldSpecs,
				Derived: dr.Derived,
			})
		}
	}
	return s
}

func enumSpec(node *sitter.Node, source []byte) SpecEnum {
	e := SpecEnum{}
	if name := node.ChildByFieldName("name"); name != nil {
		e.Tag = nodeText(name, source)
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return e
	}
	e.HasBody = true
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child.Kind() != "enumerator" {
			continue
		}
		if name := child.ChildByFieldName("name"); name != nil {
			e.Enumerators = append(e.Enumerators, nodeText(name, source))
		}
	}
	return e
}

// buildDeclarator walks a declarator node down to its identifier,
// collecting derived steps. Appending on the way back out yields the
// innermost-first chain order the resolver expects.
func buildDeclarator(node *sitter.Node, source []byte) Declarator {
	name, derived := declaratorChain(node, source)
	return Declarator{Name: name, Derived: derived}
}

func declaratorChain(node *sitter.Node, source []byte) (string, []Derived) {
	if node == nil {
		return "", nil
	}
	switch node.Kind() {
	case "identifier", "field_identifier", "type_identifier":
		return nodeText(node, source), nil

	case "init_declarator":
		return declaratorChain(node.ChildByFieldName("declarator"), source)

	case "parenthesized_declarator":
		return declaratorChain(node.NamedChild(0), source)

	case "pointer_declarator", "abstract_pointer_declarator":
		name, inner := declaratorChain(node.ChildByFieldName("declarator"), source)
		return name, append(inner, Ptr{})

	case "array_declarator", "abstract_array_declarator":
		name, inner := declaratorChain(node.ChildByFieldName("declarator"), source)
		return name, append(inner, Arr{Size: arraySize(node, source)})

	case "function_declarator", "abstract_function_declarator":
		name, inner := declaratorChain(node.ChildByFieldName("declarator"), source)
		params, variadic := parseParams(node.ChildByFieldName("parameters"), source)
		return name, append(inner, Fun{Params: params, Variadic: variadic})

	default:
		return "", nil
	}
}

func parseParams(list *sitter.Node, source []byte) ([]Param, bool) {
	if list == nil {
		return nil, false
	}
	var params []Param
	variadic := false
	for i := uint(0); i < list.ChildCount(); i++ {
		child := list.Child(i)
		switch child.Kind() {
		case "parameter_declaration":
			typeNode := child.ChildByFieldName("type")
			if typeNode == nil {
				continue
			}
			p := Param{Specs: specsFor(typeNode, source)}
			if dr := child.ChildByFieldName("declarator"); dr != nil {
				built := buildDeclarator(dr, source)
				p.Name = built.Name
				p.Derived = built.Derived
			}
			params = append(params, p)
		case "variadic_parameter", "...":
			variadic = true
		}
	}
	return params, variadic
}

func arraySize(node *sitter.Node, source []byte) int64 {
	size := node.ChildByFieldName("size")
	if size == nil || size.Kind() != "number_literal" {
		return -1
	}
	n, err := strconv.ParseInt(nodeText(size, source), 0, 64)
	if err != nil {
		return -1
	}
	return n
}

func hasStorageClass(node *sitter.Node, source []byte, name string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "storage_class_specifier" && nodeText(child, source) == name {
			return true
		}
	}
	return false
}

func isDeclaratorKind(kind string) bool {
	switch kind {
	case "identifier", "field_identifier", "type_identifier",
		"init_declarator", "parenthesized_declarator",
		"pointer_declarator", "array_declarator", "function_declarator":
		return true
	}
	return false
}

func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// prettyText renders a node's source text on a single line for use in
// generated comments.
func prettyText(node *sitter.Node, source []byte) string {
	return strings.Join(strings.Fields(nodeText(node, source)), " ")
}

func posOf(node *sitter.Node, origin OriginFunc) Pos {
	row := int(node.StartPosition().Row)
	p := Pos{Row: row}
	if origin != nil {
		p.File = origin(row)
	}
	return p
}
