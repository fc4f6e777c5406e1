package mysql

import (
	"context"
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

// MySQL server error numbers that mean "another transaction got there first"
const (
	erDupEntry        = 1062
	erLockWaitTimeout = 1205
	erLockDeadlock    = 1213
)

// translateError maps storage errors onto the domain taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrConflictRetryable,
		domain.ErrTimeout,
		domain.ErrStorageUnavailable,
	} {
		if errors.Is(err, known) {
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erDupEntry, erLockWaitTimeout, erLockDeadlock:
			return fmt.Errorf("%w: %v", domain.ErrConflictRetryable, err)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domain.ErrConflictRetryable, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}
