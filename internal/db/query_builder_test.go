package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder(t *testing.T) {
	var qb QueryBuilder
	qb.Add("SELECT * FROM questions WHERE TRUE")
	qb.Add("AND week = $? AND year = $?", 20, 2024)
	qb.Add("AND topic = $?", "golang")

	assert.Equal(t, "SELECT * FROM questions WHERE TRUE\nAND week = $1 AND year = $2\nAND topic = $3\n", qb.String())
	assert.Equal(t, []interface{}{20, 2024, "golang"}, qb.Args())
}

func TestQueryBuilderWhere(t *testing.T) {
	var qb QueryBuilder
	qb.Add("SELECT * FROM questions")
	qb.Where("topic = $?", "golang")
	qb.Where("approved")
	qb.Where("week = $?", 20)
	qb.Add("LIMIT $?", 11)

	assert.Equal(t, "SELECT * FROM questions\nWHERE topic = $1\nAND approved\nAND week = $2\nLIMIT $3\n", qb.String())
	assert.Equal(t, []interface{}{"golang", 20, 11}, qb.Args())
}

func TestQueryBuilderWithoutPredicates(t *testing.T) {
	var qb QueryBuilder
	qb.Add("SELECT * FROM questions")
	qb.Add("ORDER BY id")

	assert.NotContains(t, qb.String(), "WHERE")
}

func TestQueryBuilderArgumentMismatchPanics(t *testing.T) {
	var qb QueryBuilder
	assert.Panics(t, func() { qb.Add("AND week = $?") })
}
