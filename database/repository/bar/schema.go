package bar

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/thrasher-corp/barbacktester/database"
)

var schema = map[string]string{
	database.DBSQLite3: `CREATE TABLE IF NOT EXISTS bar (
		symbol text NOT NULL,
		timestamp text NOT NULL,
		open text NOT NULL,
		high text NOT NULL,
		low text NOT NULL,
		close text NOT NULL,
		volume text NOT NULL,
		ex_dividend text NOT NULL DEFAULT '0',
		split_ratio text NOT NULL DEFAULT '1',
		PRIMARY KEY (symbol, timestamp)
	);`,
	database.DBPostgreSQL: `CREATE TABLE IF NOT EXISTS bar (
		symbol varchar(32) NOT NULL,
		timestamp timestamptz NOT NULL,
		open numeric NOT NULL,
		high numeric NOT NULL,
		low numeric NOT NULL,
		close numeric NOT NULL,
		volume numeric NOT NULL,
		ex_dividend numeric NOT NULL DEFAULT 0,
		split_ratio numeric NOT NULL DEFAULT 1,
		PRIMARY KEY (symbol, timestamp)
	);`,
}

// CreateSchema creates the bar table if it does not already exist
func CreateSchema(ctx context.Context, inst *database.Instance) error {
	db := inst.GetSQL()
	if db == nil {
		return database.ErrDatabaseNotConnected
	}
	query, ok := schema[inst.Driver()]
	if !ok {
		return fmt.Errorf("%w '%v'", database.ErrUnsupportedDriver, inst.Driver())
	}
	inst.LogQuery(query)
	_, err := db.ExecContext(ctx, query)
	return err
}

// Rebind converts ? placeholders to the driver's bind style
func Rebind(driver, query string) string {
	if driver != database.DBPostgreSQL {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
