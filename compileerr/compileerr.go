// Package compileerr holds the four structured error kinds the core can
// raise (spec.md §7). All four are fatal at the core boundary: the core
// does not recover locally, it aborts the current compilation unit and
// hands a *Error back up to the driver to render.
//
// This enriches the teacher's bare IRError{Msg string} with a closed kind
// enumeration and wrapping via tlog.app/go/errors, the way the rest of
// this module reports errors.
package compileerr

import "tlog.app/go/errors"

// Kind is the closed set of structured error kinds the core can raise.
type Kind int

const (
	// MalformedAST: break/continue outside a loop, or an AST variant the
	// core cannot lower.
	MalformedAST Kind = iota
	// UnboundVariable: an expression references an identifier with no
	// declaration reaching the use.
	UnboundVariable
	// InconsistentCFG: a phi/predecessor arity mismatch, a missing
	// terminator where one is required, or unreachable code still
	// referenced by edges.
	InconsistentCFG
	// AnalysisDiverged is reserved: a dataflow loop has not converged
	// within an implementation budget.
	AnalysisDiverged
)

func (k Kind) String() string {
	switch k {
	case MalformedAST:
		return "malformed_ast"
	case UnboundVariable:
		return "unbound_variable"
	case InconsistentCFG:
		return "inconsistent_cfg"
	case AnalysisDiverged:
		return "analysis_diverged"
	default:
		return "unknown"
	}
}

// Error is the structured value the core raises for one of the four
// kinds above. It wraps an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.cause.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs an *Error of the given kind with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind wrapping cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.Wrap(cause, message)}
}

// Is reports whether err is a *Error of kind k, looking through wrapping.
func Is(err error, k Kind) bool {
	var e *Error
	for err != nil {
		if ce, ok := err.(*Error); ok {
			e = ce
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == k
}
