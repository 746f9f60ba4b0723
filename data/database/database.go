package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	gctdatabase "github.com/thrasher-corp/barbacktester/database"
	"github.com/thrasher-corp/barbacktester/database/drivers/postgres"
	sqlite "github.com/thrasher-corp/barbacktester/database/drivers/sqlite3"
	"github.com/thrasher-corp/barbacktester/database/repository/bar"
	"github.com/thrasher-corp/barbacktester/log"
)

var (
	errNilInstance = errors.New("database instance not set")
	errNotEnabled  = errors.New("database support is disabled")
)

// Connect opens the connection named by cfg and ensures the bar table exists.
// A relative sqlite database path is resolved against dataPath
func Connect(ctx context.Context, cfg *gctdatabase.Config, dataPath string) (*gctdatabase.Instance, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w database config", common.ErrNilPointer)
	}
	if !cfg.Enabled {
		return nil, errNotEnabled
	}
	var inst *gctdatabase.Instance
	var err error
	switch strings.ToLower(cfg.Driver) {
	case gctdatabase.DBSQLite3:
		inst, err = sqlite.Connect(cfg, dataPath)
	case gctdatabase.DBPostgreSQL:
		inst, err = postgres.Connect(cfg)
	default:
		return nil, fmt.Errorf("%w '%v'", gctdatabase.ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err = bar.CreateSchema(ctx, inst); err != nil {
		return nil, common.AppendError(err, inst.CloseConnection())
	}
	log.Debugf(log.DatabaseMgr, "connected to %v database %v", inst.Driver(), cfg.Database)
	return inst, nil
}

// Loader reads bars for each symbol from the bar table
type Loader struct {
	DB    *gctdatabase.Instance
	Start time.Time
	End   time.Time
}

// Load implements data.Loader
func (l *Loader) Load(ctx context.Context, symbols []string) (map[string][]data.Bar, error) {
	if l == nil || l.DB == nil {
		return nil, errNilInstance
	}
	resp := make(map[string][]data.Bar, len(symbols))
	for i := range symbols {
		s := strings.ToUpper(symbols[i])
		item, err := bar.Series(ctx, l.DB, s, l.Start, l.End)
		if err != nil {
			return nil, err
		}
		bars := make([]data.Bar, len(item.Bars))
		for j := range item.Bars {
			bars[j] = data.Bar{
				Symbol:     s,
				Time:       item.Bars[j].Timestamp,
				Open:       item.Bars[j].Open,
				High:       item.Bars[j].High,
				Low:        item.Bars[j].Low,
				Close:      item.Bars[j].Close,
				Volume:     item.Bars[j].Volume,
				ExDividend: item.Bars[j].ExDividend,
				SplitRatio: item.Bars[j].SplitRatio,
			}
		}
		log.Debugf(common.SubLoggers[common.Data], "loaded %d bars for %v from %v", len(bars), s, l.DB.Driver())
		resp[s] = bars
	}
	return resp, nil
}

// Store writes bars to the bar table, creating it if required. Existing
// rows for the same symbol and timestamp are replaced
func Store(ctx context.Context, db *gctdatabase.Instance, bars map[string][]data.Bar) (uint64, error) {
	if db == nil {
		return 0, errNilInstance
	}
	if err := bar.CreateSchema(ctx, db); err != nil {
		return 0, err
	}
	var total uint64
	for s, series := range bars {
		item := &bar.Item{
			Symbol: s,
			Bars:   make([]bar.Bar, len(series)),
		}
		for i := range series {
			item.Bars[i] = bar.Bar{
				Timestamp:  series[i].Time,
				Open:       series[i].Open,
				High:       series[i].High,
				Low:        series[i].Low,
				Close:      series[i].Close,
				Volume:     series[i].Volume,
				ExDividend: series[i].ExDividend,
				SplitRatio: series[i].Split(),
			}
		}
		n, err := bar.Insert(ctx, db, item)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
