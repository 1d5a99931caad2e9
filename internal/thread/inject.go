package thread

import (
	"fmt"

	"github.com/funvibe/thread/internal/ast"
)

// Inject returns args with value placed according to aop.
//
// A placement puts value first or last unless skip is set. An alias
// never places value: a step with no arguments receives the alias name
// instead, and a step with arguments is expected to mention it itself.
func Inject(aop AliasOrPlacement, args []ast.Expression, value ast.Expression, skip bool) []ast.Expression {
	out := make([]ast.Expression, 0, len(args)+1)
	switch a := aop.(type) {
	case Placement:
		switch {
		case skip:
			return append(out, args...)
		case a == First:
			out = append(out, value)
			return append(out, args...)
		default:
			out = append(out, args...)
			return append(out, value)
		}
	case Alias:
		out = append(out, args...)
		if len(args) == 0 {
			out = append(out, a.ident())
		}
		return out
	}
	panic(fmt.Sprintf("thread: unexpected placement %T", aop))
}
