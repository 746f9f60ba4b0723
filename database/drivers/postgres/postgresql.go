package postgres

import (
	"database/sql"
	"fmt"

	// import postgres driver
	_ "github.com/lib/pq"
	"github.com/thrasher-corp/barbacktester/database"
)

// DSN builds the lib/pq connection string for cfg
func DSN(cfg *database.Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		sslMode)
}

// Connect establishes a connection pool to the database and pings it
func Connect(cfg *database.Config) (*database.Instance, error) {
	if cfg == nil || cfg.Database == "" {
		return nil, database.ErrNoDatabaseProvided
	}
	dbConn, err := sql.Open(database.DBPostgreSQL, DSN(cfg))
	if err != nil {
		return nil, err
	}
	inst := &database.Instance{}
	if err = inst.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err = inst.SetPostgresConnection(dbConn); err != nil {
		return nil, fmt.Errorf("%v:%v %w", cfg.Host, cfg.Port, err)
	}
	return inst, nil
}
