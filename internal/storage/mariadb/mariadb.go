package mariadb

import (
	"errors"
	"fmt"

	"games_library/internal/config"
	"games_library/internal/storage"
	"games_library/internal/storage/gormkv"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// MySQL "The table is full" and "Got error 28 from storage engine".
const (
	errTableFull = 1114
	errDiskFull  = 1030
)

type Storage struct {
	*gormkv.Storage
}

func New(cfg config.Database, namespace string) (*Storage, error) {
	const op = "storage.mariadb.New"

	db, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return Wrap(db, namespace), nil
}

// Wrap builds the storage over an already opened gorm handle.
func Wrap(db *gorm.DB, namespace string) *Storage {
	return &Storage{
		Storage: gormkv.New(db, namespace, gormkv.WithErrorMapper(mapError)),
	}
}

func mapError(err error) error {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errTableFull, errDiskFull:
			return fmt.Errorf("%w: %s", storage.ErrQuotaExceeded, myErr.Message)
		}
	}
	return err
}
