package customer

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// DefaultLoyaltyExpr is the stock eligibility rule: a discount may be
// offered once accumulated purchases reach 150.
const DefaultLoyaltyExpr = "total >= 150.0"

// LoyaltyRule decides when a customer has earned the loyalty discount.
// The rule is a CEL expression over the accumulated purchase total and the
// number of recorded purchases, so shops can tune it without a rebuild.
type LoyaltyRule struct {
	expr    string
	program cel.Program
}

// NewLoyaltyRule compiles a CEL eligibility expression.
func NewLoyaltyRule(expr string) (*LoyaltyRule, error) {
	env, err := cel.NewEnv(
		cel.Variable("total", cel.DoubleType),
		cel.Variable("count", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("loyalty cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile loyalty rule %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("loyalty rule %q must evaluate to bool", expr)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program loyalty rule: %w", err)
	}

	return &LoyaltyRule{expr: expr, program: program}, nil
}

// MustLoyaltyRule compiles or panics. Use only for constants and tests.
func MustLoyaltyRule(expr string) *LoyaltyRule {
	rule, err := NewLoyaltyRule(expr)
	if err != nil {
		panic(err)
	}
	return rule
}

// Expr returns the source expression.
func (r *LoyaltyRule) Expr() string { return r.expr }

// Eligible evaluates the rule against a purchase total and count.
func (r *LoyaltyRule) Eligible(total float64, count int) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{
		"total": total,
		"count": count,
	})
	if err != nil {
		return false, fmt.Errorf("eval loyalty rule: %w", err)
	}

	eligible, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("loyalty rule returned %T, want bool", out.Value())
	}
	return eligible, nil
}
