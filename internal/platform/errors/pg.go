package errors

// Storage-specific helpers mapping pgx and database/sql errors onto ErrorCode

import (
	"context"
	"database/sql"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUndefinedTable         = "42P01"
	pgErrSerializationFailure   = "40001"
	pgErrDeadlockDetected       = "40P01"
	pgErrLockNotAvailable       = "55P03"
	pgErrReadOnlySQLTransaction = "25006"
	pgErrCannotConnectNow       = "57P03"
	pgErrUniqueViolation        = "23505"
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsUndefinedTable reports a query against a schema that was never imported
func IsUndefinedTable(err error) bool { return IsSQLState(err, pgErrUndefinedTable) }

// StoreErrorCode maps a driver error to an ErrorCode
func StoreErrorCode(err error) ErrorCode {
	if stderrs.Is(err, pgx.ErrNoRows) || stderrs.Is(err, sql.ErrNoRows) {
		return ErrorCodeNotFound
	}
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeStorage
	}
	switch pgErr.Code {
	case pgErrUniqueViolation:
		return ErrorCodeConflict
	case pgErrUndefinedTable:
		// the annotation or gene set tables are missing: the import step was skipped
		return ErrorCodeConfiguration
	case pgErrReadOnlySQLTransaction, pgErrCannotConnectNow:
		return ErrorCodeUnavailable
	default:
		return ErrorCodeStorage
	}
}

// FromStore wraps a database error with a mapped code; nil stays nil
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, StoreErrorCode(err), msg)
}

// FromStoref is the formatted variant of FromStore
func FromStoref(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, StoreErrorCode(err), fmt.Sprintf(format, a...))
}

// IsRetryable reports whether a database error is transient contention worth retrying
// Local cancellations are never retryable
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable, pgErrCannotConnectNow:
			return true
		default:
			return false
		}
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
		"database is locked",
		"connection refused",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
