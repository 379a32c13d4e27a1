package sqlite

import "strings"

// modernc.org/sqlite reports constraint failures as plain error strings; no
// typed error is exported for them.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
