// Package repository defines error types that are reused across multiple
// repositories. Higher layers such as the console flows and the stats
// handlers use these values to tell a store that cannot be reached apart
// from a store that simply has nothing to return. An empty result is never
// an error: repositories return an empty slice and a nil error.
package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// ErrNoYearBounds is returned by YearBounds when the film table has no
// release years to aggregate (empty catalog).
var ErrNoYearBounds = errors.New("catalog has no release years")

// ConnectionError reports that a backing store could not be reached or
// refused the configured credentials. Hint is a remediation message that
// the console shows to the user.
type ConnectionError struct {
	Store string // "mysql" or "mongo"
	Hint  string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Store, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PersistenceError reports that the favorites file could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

const mysqlHint = "check that the MySQL server is running and the MYSQL_* settings in .env are correct"

// MySQL server error numbers that mean the configured account or database
// is wrong rather than the query.
const (
	erDBAccessDenied uint16 = 1044
	erAccessDenied   uint16 = 1045
	erBadDB          uint16 = 1049
)

// classifyMySQL wraps connection-level failures into a *ConnectionError and
// returns every other error unchanged.
func classifyMySQL(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return err
	}
	if isMySQLConnError(err) {
		return &ConnectionError{Store: "mysql", Hint: mysqlHint, Err: err}
	}
	return err
}

func isMySQLConnError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erDBAccessDenied, erAccessDenied, erBadDB:
			return true
		}
	}
	return false
}
