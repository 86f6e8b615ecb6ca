package databasesql

import (
	"database/sql"

	"github.com/youssefsiam38/admindash/driver/sqlstore"
)

// NewStore creates a Store that runs on the driver's *sql.DB, or on the
// transaction carried by the context (see driver.WithExecutor).
func NewStore(d *Driver) *sqlstore.Store {
	return sqlstore.New(d.GetExecutor(), sqlstore.IsNoRows(sql.ErrNoRows))
}
