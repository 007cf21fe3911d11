package search

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrValidation is returned when a query is missing the company or the
// designation.
var ErrValidation = errors.New("company and designation are required")

// Query is what the user asks the backend for: who holds Designation at Company.
type Query struct {
	Company     string `json:"company"`
	Designation string `json:"designation"`
}

// Normalize returns a copy of the query with surrounding whitespace removed.
func (q Query) Normalize() Query {
	return Query{
		Company:     strings.TrimSpace(q.Company),
		Designation: strings.TrimSpace(q.Designation),
	}
}

func (q Query) Validate() error {
	n := q.Normalize()
	if n.Company == "" || n.Designation == "" {
		return ErrValidation
	}
	return nil
}
