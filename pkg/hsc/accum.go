// Package hsc holds the per-translation-unit output state: the ordered
// binding and helper lines being accumulated, and the typedef environment
// consulted during type resolution.
package hsc

// TypeEnv maps typedef names to their resolved binding signatures. Names
// are recorded in traversal order as declarations are walked; a later
// definition of the same name replaces the earlier one. Nothing is ever
// removed, and the environment spans exactly one translation unit.
type TypeEnv struct {
	sigs map[string]string
}

func NewTypeEnv() *TypeEnv {
	return &TypeEnv{sigs: make(map[string]string)}
}

func (e *TypeEnv) Define(name, sig string) {
	e.sigs[name] = sig
}

func (e *TypeEnv) Lookup(name string) (string, bool) {
	sig, ok := e.sigs[name]
	return sig, ok
}

// Accumulator collects the generated output for one translation unit.
// Bindings are the DSL lines destined for the .hsc file, Helpers the macro
// lines destined for the helper header. Both are append-only; callers read
// them back only after the declaration walk has finished.
type Accumulator struct {
	bindings []string
	helpers  []string
	env      *TypeEnv
}

func NewAccumulator() *Accumulator {
	return &Accumulator{env: NewTypeEnv()}
}

func (a *Accumulator) Env() *TypeEnv { return a.env }

func (a *Accumulator) AddBinding(line string) {
	a.bindings = append(a.bindings, line)
}

func (a *Accumulator) AddHelper(line string) {
	a.helpers = append(a.helpers, line)
}

func (a *Accumulator) Bindings() []string { return a.bindings }
func (a *Accumulator) Helpers() []string  { return a.helpers }
