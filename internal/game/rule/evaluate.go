// Package rule evaluates entry condition trees against a facts view of
// the world. Evaluation is pure and total: it reads facts, resolves
// formula comparisons, and fails anything it cannot answer closed (false)
// rather than erroring or panicking. A malformed condition can therefore
// disable its own entry but never take down an evaluation batch.
package rule

import (
	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/formula"
)

// Evaluate walks a condition tree against the facts. A nil tree is
// vacuously true; an and branch needs every child (empty passes), an or
// branch needs one (empty fails); leaves the facts' schema cannot answer
// and leaves whose formula fails to resolve are false.
func Evaluate(c *content.Condition, facts Facts) bool {
	if c == nil {
		return true
	}
	return eval(c, facts, facts.Bindings())
}

func eval(c *content.Condition, facts Facts, b formula.Bindings) bool {
	switch c.Kind() {
	case content.CondAnd:
		for i := range c.And {
			if !eval(&c.And[i], facts, b) {
				return false
			}
		}
		return true
	case content.CondOr:
		for i := range c.Or {
			if eval(&c.Or[i], facts, b) {
				return true
			}
		}
		return false
	}
	return facts.leaf(c, b)
}
