package sql

import (
	"fmt"
	"strings"
)

// ClauseBuilder accumulates optional predicates in a fixed order and renders
// them as a single parameterized WHERE clause. Placeholder numbers are
// assigned strictly by a predicate's position in the list, never
// pre-computed per filter name, so omitting one predicate cannot misalign
// the placeholders of the ones after it. Values travel out of band
// through Args; no value is ever interpolated into the clause text.
//
// The zero value is ready to use.
type ClauseBuilder struct {
	exprs []string
	args  []any
}

// Add appends one predicate. expr is the column and operator ("sales_date >=");
// the builder supplies the positional placeholder for value.
func (b *ClauseBuilder) Add(expr string, value any) {
	b.exprs = append(b.exprs, fmt.Sprintf("%s $%d", expr, len(b.exprs)+1))
	b.args = append(b.args, value)
}

// Where renders the accumulated predicates as a WHERE clause with a leading
// space (" WHERE a $1 AND b $2"). With zero predicates it returns the empty
// string, leaving the underlying query unfiltered.
func (b *ClauseBuilder) Where() string {
	if len(b.exprs) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.exprs, " AND ")
}

// Args returns the bound values in placeholder order.
func (b *ClauseBuilder) Args() []any {
	return b.args
}

// Next returns the placeholder number the next bound value would receive.
// Callers use it to append trailing placeholders (limit, offset) after the
// predicate clause.
func (b *ClauseBuilder) Next() int {
	return len(b.args) + 1
}
