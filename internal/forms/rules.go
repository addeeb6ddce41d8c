// Package forms validates user input before it reaches the store or the
// backend. Each field carries an ordered list of CUE constraints; the first
// constraint a value fails determines the message shown.
package forms

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// FieldError reports the first failed rule of a form.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// rule is one CUE constraint with the message shown when it fails.
type rule struct {
	expr    string
	message string
	value   cue.Value
}

// ruleSet compiles its rules once on first use.
type ruleSet struct {
	field string
	rules []rule

	once sync.Once
	err  error
}

// cueMu guards the shared CUE context; cue.Context is not safe for
// concurrent use.
var (
	cueMu  sync.Mutex
	cueCtx = cuecontext.New()
)

func fieldRules(field string, pairs ...string) *ruleSet {
	if len(pairs)%2 != 0 {
		panic("forms: rules must be (expr, message) pairs")
	}
	rs := &ruleSet{field: field}
	for i := 0; i < len(pairs); i += 2 {
		rs.rules = append(rs.rules, rule{expr: pairs[i], message: pairs[i+1]})
	}
	return rs
}

func (rs *ruleSet) compile() error {
	rs.once.Do(func() {
		for i := range rs.rules {
			src := "import \"strings\"\nrule: " + rs.rules[i].expr
			v := cueCtx.CompileString(src, cue.Filename(rs.field+".cue"))
			if v.Err() != nil {
				rs.err = fmt.Errorf("compile rule %q for %s: %w", rs.rules[i].expr, rs.field, v.Err())
				return
			}
			rs.rules[i].value = v.LookupPath(cue.ParsePath("rule"))
		}
	})
	return rs.err
}

// check returns a *FieldError for the first rule x violates, or nil.
func (rs *ruleSet) check(x any) error {
	cueMu.Lock()
	defer cueMu.Unlock()

	if err := rs.compile(); err != nil {
		return err
	}
	val := cueCtx.Encode(x)
	for _, r := range rs.rules {
		if err := r.value.Unify(val).Validate(cue.Concrete(true)); err != nil {
			return &FieldError{Field: rs.field, Message: r.message}
		}
	}
	return nil
}
