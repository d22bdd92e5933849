// Package orm is a thin chainable query builder over a *gorm.DB handle.
//
// Repositories receive the handle bound to the request's scoped connection
// and build queries from it:
//
//	var p models.Product
//	err := orm.On(tx).Model(&models.Product{}).Where("id = ?", id).First(&p)
package orm

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by First when no row matches.
var ErrNotFound = errors.New("record not found")

type Query struct {
	db *gorm.DB
}

// On starts a query on db.
func On(db *gorm.DB) *Query {
	return &Query{db: db}
}

// DB exposes the underlying handle, e.g. to open a transaction.
func (q *Query) DB() *gorm.DB { return q.db }

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

// Page applies OFFSET/LIMIT. A negative limit means no limit.
func (q *Query) Page(skip, limit int) *Query {
	return &Query{db: q.db.Offset(skip).Limit(limit)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row, ordered by primary key.
func (q *Query) First(dest interface{}) error {
	err := q.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

// Updates writes the given columns and reports how many rows matched.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Delete removes rows matching the query and reports how many went.
func (q *Query) Delete(model interface{}) (int64, error) {
	res := q.db.Delete(model)
	return res.RowsAffected, res.Error
}
