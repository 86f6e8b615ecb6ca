package pgxv5

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/youssefsiam38/admindash/driver/sqlstore"
)

// NewStore creates a Store that runs on the driver's pool, or on the
// transaction carried by the context (see driver.WithExecutor).
func NewStore(d *Driver) *sqlstore.Store {
	return sqlstore.New(d.GetExecutor(), isNoRows)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
