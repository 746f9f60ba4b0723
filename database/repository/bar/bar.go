package bar

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/thrasher-corp/barbacktester/database"
	"github.com/thrasher-corp/barbacktester/log"
)

const (
	columns = "timestamp, open, high, low, close, volume, ex_dividend, split_ratio"
	upsert  = `INSERT INTO bar (symbol, ` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, timestamp) DO UPDATE SET
		open = excluded.open, high = excluded.high, low = excluded.low, close = excluded.close,
		volume = excluded.volume, ex_dividend = excluded.ex_dividend, split_ratio = excluded.split_ratio`
)

// Series returns the stored bars for symbol ordered by timestamp. A zero
// start or end leaves that side of the range open
func Series(ctx context.Context, inst *database.Instance, symbol string, start, end time.Time) (out Item, err error) {
	if symbol == "" {
		return out, errInvalidInput
	}
	db := inst.GetSQL()
	if db == nil {
		return out, database.ErrDatabaseNotConnected
	}
	symbol = strings.ToUpper(symbol)
	driver := inst.Driver()

	query := "SELECT " + columns + " FROM bar WHERE symbol = ?"
	args := []any{symbol}
	if !start.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, timestampArg(driver, start))
	}
	if !end.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, timestampArg(driver, end))
	}
	query = Rebind(driver, query+" ORDER BY timestamp")
	inst.LogQuery(query, args...)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return out, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Errorln(log.DatabaseMgr, closeErr)
		}
	}()
	for rows.Next() {
		var b Bar
		b, err = scanBar(rows, driver)
		if err != nil {
			return out, err
		}
		out.Bars = append(out.Bars, b)
	}
	if err = rows.Err(); err != nil {
		return out, err
	}
	if len(out.Bars) < 1 {
		return out, fmt.Errorf("%w: %s", ErrNoBarDataFound, symbol)
	}
	out.Symbol = symbol
	return out, nil
}

func scanBar(rows *sql.Rows, driver string) (Bar, error) {
	var b Bar
	dest := []any{&b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.ExDividend, &b.SplitRatio}
	if driver == database.DBSQLite3 {
		var ts string
		if err := rows.Scan(append([]any{&ts}, dest...)...); err != nil {
			return b, err
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return b, err
		}
		b.Timestamp = t
		return b, nil
	}
	if err := rows.Scan(append([]any{&b.Timestamp}, dest...)...); err != nil {
		return b, err
	}
	b.Timestamp = b.Timestamp.UTC()
	return b, nil
}

func timestampArg(driver string, t time.Time) any {
	if driver == database.DBSQLite3 {
		return t.UTC().Format(time.RFC3339)
	}
	return t.UTC()
}

// Insert upserts a series of bars in a single transaction
func Insert(ctx context.Context, inst *database.Instance, in *Item) (uint64, error) {
	if in == nil || in.Symbol == "" {
		return 0, errInvalidInput
	}
	if len(in.Bars) < 1 {
		return 0, errNoBarData
	}
	db := inst.GetSQL()
	if db == nil {
		return 0, database.ErrDatabaseNotConnected
	}
	driver := inst.Driver()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	query := Rebind(driver, upsert)
	var totalInserted uint64
	for i := range in.Bars {
		b := &in.Bars[i]
		args := []any{
			strings.ToUpper(in.Symbol),
			timestampArg(driver, b.Timestamp),
			b.Open, b.High, b.Low, b.Close, b.Volume, b.ExDividend, b.SplitRatio,
		}
		inst.LogQuery(query, args...)
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			if errRB := tx.Rollback(); errRB != nil {
				log.Errorln(log.DatabaseMgr, errRB)
			}
			return 0, err
		}
		totalInserted++
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return totalInserted, nil
}

// DeleteBars removes every stored bar for symbol
func DeleteBars(ctx context.Context, inst *database.Instance, symbol string) (int64, error) {
	if symbol == "" {
		return 0, errInvalidInput
	}
	db := inst.GetSQL()
	if db == nil {
		return 0, database.ErrDatabaseNotConnected
	}
	query := Rebind(inst.Driver(), "DELETE FROM bar WHERE symbol = ?")
	inst.LogQuery(query, symbol)
	res, err := db.ExecContext(ctx, query, strings.ToUpper(symbol))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Symbols lists every symbol with stored bars
func Symbols(ctx context.Context, inst *database.Instance) ([]string, error) {
	db := inst.GetSQL()
	if db == nil {
		return nil, database.ErrDatabaseNotConnected
	}
	rows, err := db.QueryContext(ctx, "SELECT DISTINCT symbol FROM bar ORDER BY symbol")
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Errorln(log.DatabaseMgr, closeErr)
		}
	}()
	var resp []string
	for rows.Next() {
		var s string
		if err = rows.Scan(&s); err != nil {
			return nil, err
		}
		resp = append(resp, s)
	}
	return resp, rows.Err()
}
