package profile

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"menu-audit/internal/model"
)

// Env is the variable set a custom rule expression can reference.
type Env struct {
	Text    string  `expr:"text"`    // normalized cell text
	Number  float64 `expr:"number"`  // first numeric token, 0 when none
	Present bool    `expr:"present"` // cell is not blank
	Label   string  `expr:"label"`   // row label
	Day     string  `expr:"day"`     // date/day label of the column
	Weekday int     `expr:"weekday"` // 0=Sunday ... 6=Saturday, by position when the day label has none
}

// CustomRule is a profile-defined check written as a boolean expression,
// e.g. `present && number > 800`. It applies to rows whose label contains one
// of Labels and fires when the expression evaluates to true.
type CustomRule struct {
	Name     string
	Labels   []string
	Expr     string
	Category model.Category
	Reason   string

	program *vm.Program
}

func compileCustomRule(r *CustomRule) error {
	program, err := expr.Compile(r.Expr, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return fmt.Errorf("compile custom rule %q: %w", r.Name, err)
	}
	r.program = program
	return nil
}

// AppliesTo reports whether the rule watches this row label.
func (r *CustomRule) AppliesTo(label string) bool {
	return containsAny(label, r.Labels)
}

// Eval runs the compiled expression against env.
func (r *CustomRule) Eval(env Env) (bool, error) {
	if r.program == nil {
		return false, fmt.Errorf("custom rule %q is not compiled", r.Name)
	}
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate custom rule %q: %w", r.Name, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("custom rule %q evaluated to %T, expected bool", r.Name, out)
	}
	return b, nil
}
