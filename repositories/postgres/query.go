package postgres

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates AND-ed conditions with positional placeholders
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition; each "?" in cond is replaced by the next $n placeholder
func (b *whereBuilder) add(cond string, args ...interface{}) {
	for _, arg := range args {
		b.args = append(b.args, arg)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conditions = append(b.conditions, cond)
}

// contains adds a case-insensitive substring match on column
func (b *whereBuilder) contains(column string, value *string) {
	if value == nil {
		return
	}
	q := strings.TrimSpace(*value)
	if q == "" {
		return
	}
	b.add(column+" ILIKE ?", "%"+q+"%")
}

// equals adds an equality match on column when value is set
func (b *whereBuilder) equals(column string, value *string) {
	if value == nil || *value == "" {
		return
	}
	b.add(column+" = ?", *value)
}

func (b *whereBuilder) clause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

// page returns the LIMIT/OFFSET suffix and its arguments appended to the filter arguments
func (b *whereBuilder) page(limit, offset int) (string, []interface{}) {
	n := len(b.args)
	args := append(append([]interface{}{}, b.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
