package database

import (
	"fmt"

	"gorm.io/gorm"
)

type condition struct {
	clause string
	value  any
}

// Query is a small condition builder for the generic Repository helpers.
// The zero value is an unfiltered query over the whole table. Stores with
// needs beyond equality, IN, and title ordering drop down to the raw GORM
// session instead.
type Query struct {
	conditions []condition
	order      []string
}

// NewQuery creates a new empty Query.
func NewQuery() Query {
	return Query{}
}

// Equal adds an equality condition.
func (q Query) Equal(field string, value any) Query {
	q.conditions = append(q.conditions, condition{clause: fmt.Sprintf("%s = ?", field), value: value})
	return q
}

// In adds an IN condition.
func (q Query) In(field string, values any) Query {
	q.conditions = append(q.conditions, condition{clause: fmt.Sprintf("%s IN ?", field), value: values})
	return q
}

// OrderAsc adds ascending ordering on the field.
func (q Query) OrderAsc(field string) Query {
	q.order = append(q.order, fmt.Sprintf("%s ASC", field))
	return q
}

// Apply applies conditions and ordering to a GORM session.
func (q Query) Apply(db *gorm.DB) *gorm.DB {
	result := q.ApplyConditions(db)
	for _, o := range q.order {
		result = result.Order(o)
	}
	return result
}

// ApplyConditions applies only the conditions, skipping ordering. Used for
// COUNT and DELETE where ORDER BY is meaningless.
func (q Query) ApplyConditions(db *gorm.DB) *gorm.DB {
	result := db
	for _, c := range q.conditions {
		result = result.Where(c.clause, c.value)
	}
	return result
}
