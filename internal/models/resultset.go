package models

import "maps"

// ResultSet is the ordered set of rows produced by one successful fetch,
// bound to the criteria snapshot that fetch was issued for. It is never
// modified after construction; a newer fetch replaces it as a whole.
type ResultSet struct {
	criteria FilterCriteria
	rows     []Row
}

// NewResultSet copies rows so later changes to the caller's slice or maps
// do not leak in.
func NewResultSet(criteria FilterCriteria, rows []Row) *ResultSet {
	return &ResultSet{criteria: criteria, rows: cloneRows(rows)}
}

func cloneRows(rows []Row) []Row {
	cp := make([]Row, len(rows))
	for i, r := range rows {
		cp[i] = maps.Clone(r)
	}
	return cp
}

// Criteria returns the criteria that produced the rows.
func (rs *ResultSet) Criteria() FilterCriteria {
	return rs.criteria
}

// Len returns the number of rows. A nil ResultSet has none.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rows)
}

// At returns a copy of row i.
func (rs *ResultSet) At(i int) Row {
	return maps.Clone(rs.rows[i])
}

// Rows returns a copy of the rows in server order.
func (rs *ResultSet) Rows() []Row {
	if rs == nil {
		return nil
	}
	return cloneRows(rs.rows)
}
