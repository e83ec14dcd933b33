// Package lock adds row level locks to GORM queries.
package lock

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate appends FOR UPDATE to the next query. SQLite has no row locks
// and serializes writers on the database file, so the clause is skipped
// there.
func ForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
