package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// duplicateMarkers are the driver messages for a unique-constraint
// violation, used when the dialector does not translate the error.
var duplicateMarkers = []string{
	"unique constraint failed",            // sqlite
	"duplicate key value violates unique", // postgres
	"error 1062",                          // mysql
	"duplicate entry",                     // mysql
	"cannot insert duplicate key",         // sqlserver
	"violation of unique key constraint",  // sqlserver
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range duplicateMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
