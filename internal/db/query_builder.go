package db

import (
	"fmt"
	"strconv"
	"strings"
)

const placeholder = "$?"

// QueryBuilder assembles SQL one clause per line. Each `$?` in a clause is numbered in order
// of appearance across the whole query ($1, $2, ...) and bound to the next argument.
type QueryBuilder struct {
	sql      strings.Builder
	args     []any
	hasWhere bool
}

// Add appends a clause. It panics when the placeholder count differs from len(args), which is
// always a programming error in the caller.
func (qb *QueryBuilder) Add(clause string, args ...any) {
	if n := strings.Count(clause, placeholder); n != len(args) {
		panic(fmt.Errorf("query clause %q has %d placeholders but got %d arguments", clause, n, len(args)))
	}

	for _, arg := range args {
		qb.args = append(qb.args, arg)
		clause = strings.Replace(clause, placeholder, "$"+strconv.Itoa(len(qb.args)), 1)
	}
	qb.sql.WriteString(clause)
	qb.sql.WriteByte('\n')
}

// Where adds a predicate, opening the WHERE clause on first use and joining later ones with AND.
func (qb *QueryBuilder) Where(cond string, args ...any) {
	if qb.hasWhere {
		qb.Add("AND "+cond, args...)
		return
	}
	qb.hasWhere = true
	qb.Add("WHERE "+cond, args...)
}

func (qb *QueryBuilder) String() string {
	return qb.sql.String()
}

func (qb *QueryBuilder) Args() []any {
	return qb.args
}
