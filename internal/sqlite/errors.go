package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/closing-timeline/internal/repository"
	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// constraintError maps a failed write to a repository sentinel. Errors that
// are not constraint violations are wrapped with the operation description.
func constraintError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	what := fmt.Sprintf(format, args...)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", repository.ErrConflict, what)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %s", repository.ErrForeignKeyViolation, what)
	default:
		return fmt.Errorf("failed to %s: %w", what, err)
	}
}

func extendedCode(err error) (int, bool) {
	var sqliteErr *driver.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}
	return 0, false
}

func isForeignKeyViolation(err error) bool {
	if code, ok := extendedCode(err); ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if code, ok := extendedCode(err); ok &&
		(code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
