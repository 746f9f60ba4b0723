package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/thrasher-corp/barbacktester/database"
)

// Connect opens the sqlite database file named in cfg, relative to dataPath
// unless it is absolute
func Connect(cfg *database.Config, dataPath string) (*database.Instance, error) {
	if cfg == nil || cfg.Database == "" {
		return nil, database.ErrNoDatabaseProvided
	}
	location := cfg.Database
	if !filepath.IsAbs(location) && dataPath != "" {
		location = filepath.Join(dataPath, location)
	}
	dbConn, err := sql.Open(database.DBSQLite3, location)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", location, err)
	}
	inst := &database.Instance{}
	if err = inst.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err = inst.SetSQLiteConnection(dbConn); err != nil {
		return nil, err
	}
	return inst, nil
}
