// Package compile turns one or more parsed schema files (parse.File) into a
// single validated schema.Schema: it resolves type names across files,
// enforces the per-definition-kind field rules the grammar itself doesn't
// encode (enum/message require a discriminant, struct forbids one), and then
// runs schema.Validate. Errors accumulate in an Env rather than aborting at
// the first one, so a single invocation reports every problem in a schema at
// once.
package compile

import (
	"strings"

	"github.com/zfedoran/brine-kiwi/kiwierr"
)

// DefaultMaxErrors bounds how many errors one compile pass accumulates;
// errors reported after the cap is reached are dropped.
const DefaultMaxErrors = 50

// Env accumulates compile errors across a pass over one or more files.
type Env struct {
	errs []error
	max  int
}

// NewEnv returns an Env that stops accumulating once it holds maxErrors
// errors. A maxErrors of 0 uses DefaultMaxErrors.
func NewEnv(maxErrors int) *Env {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Env{max: maxErrors}
}

// Errorf records a compile error of the given kind if the Env hasn't already
// hit its error cap.
func (e *Env) Errorf(kind kiwierr.Kind, format string, args ...interface{}) {
	if len(e.errs) >= e.max {
		return
	}
	e.errs = append(e.errs, kiwierr.New(kind, format, args...))
}

// HasErrors reports whether any error has been recorded.
func (e *Env) HasErrors() bool { return len(e.errs) > 0 }

// Errors returns every recorded error, in the order they were added.
func (e *Env) Errors() []error { return e.errs }

// Err collapses every recorded error into one, or returns nil if there were
// none. The returned error's message lists every failure; its Kind (via
// kiwierr.ErrorKind) is that of the first failure, which is usually the most
// actionable one.
func (e *Env) Err() error {
	if len(e.errs) == 0 {
		return nil
	}
	if len(e.errs) == 1 {
		return e.errs[0]
	}
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	first := kiwierr.ErrorKind(e.errs[0])
	return kiwierr.New(first, "%d errors:\n  %s", len(e.errs), strings.Join(msgs, "\n  "))
}
