package ir

import "strconv"

// Var is a variable name. Before SSA renaming it is the source identifier;
// after renaming its SSA-qualified spelling is reported by Versioned, never
// baked into the Var itself: the version lives on the defining instruction
// (spec.md §3), not on the name.
type Var string

// Versioned renders "name#k", the fully-qualified SSA name of spec.md §3.
func (v Var) Versioned(version int) string {
	return string(v) + "#" + strconv.Itoa(version)
}
