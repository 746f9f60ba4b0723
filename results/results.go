package results

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/log"
)

// LoadOrInitialise reads the run counter from dir, starting from zero when
// no counter has been written yet. dir is created if required
func LoadOrInitialise(dir string) (*RunContext, error) {
	if dir == "" {
		return nil, errNoDirectory
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, err
	}
	rc := &RunContext{dir: dir}
	contents, err := os.ReadFile(filepath.Join(dir, counterFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debugf(common.SubLoggers[common.Results], "no %v in %v, starting from zero", counterFile, dir)
		return rc, rc.persist()
	case err != nil:
		return nil, err
	}
	var c counter
	if err = json.Unmarshal(contents, &c); err != nil {
		return nil, fmt.Errorf("%v: %w", counterFile, err)
	}
	if c.BacktestNumber < 0 {
		return nil, fmt.Errorf("%w %d in %v", errInvalidNumber, c.BacktestNumber, counterFile)
	}
	rc.number = c.BacktestNumber
	return rc, nil
}

// Dir returns the directory artifacts are written to
func (r *RunContext) Dir() string {
	return r.dir
}

// Current returns the last issued run number
func (r *RunContext) Current() int64 {
	r.m.Lock()
	defer r.m.Unlock()
	return r.number
}

// Next issues and persists the next run number
func (r *RunContext) Next() (int64, error) {
	if r == nil {
		return 0, fmt.Errorf("%w run context", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	r.number++
	if err := r.persist(); err != nil {
		r.number--
		return 0, err
	}
	return r.number, nil
}

func (r *RunContext) persist() error {
	contents, err := json.Marshal(counter{BacktestNumber: r.number})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.dir, counterFile), contents, 0o640)
}

func (r *RunContext) path(number int64, ext string) string {
	return filepath.Join(r.dir, artifactPrefix+strconv.FormatInt(number, 10)+ext)
}

// Save writes the table for the run as backtest_N.csv and backtest_N.json
func (r *RunContext) Save(number int64, t *Table) error {
	if r == nil {
		return fmt.Errorf("%w run context", common.ErrNilPointer)
	}
	if number < 1 {
		return fmt.Errorf("%w %d", errInvalidNumber, number)
	}
	if t == nil {
		return errNilTable
	}
	if len(t.Rows) == 0 {
		return ErrNoRows
	}
	t.Number = number
	contents, err := json.MarshalIndent(t, "", " ")
	if err != nil {
		return err
	}
	if err = os.WriteFile(r.path(number, ".json"), contents, 0o640); err != nil {
		return err
	}
	if err = r.writeCSV(number, t); err != nil {
		return err
	}
	log.Infof(common.SubLoggers[common.Results], "saved backtest %d results to %v", number, r.path(number, ".csv"))
	return nil
}

func (r *RunContext) writeCSV(number int64, t *Table) (err error) {
	f, err := os.Create(r.path(number, ".csv"))
	if err != nil {
		return err
	}
	defer func() {
		err = common.AppendError(err, f.Close())
	}()
	w := csv.NewWriter(f)
	header := append([]string{"timestamp"}, t.Symbols...)
	header = append(header, "cash", "commission", "total", "returns", "equity_curve")
	if err = w.Write(header); err != nil {
		return err
	}
	for i := range t.Rows {
		row := t.Rows[i]
		record := make([]string, 0, len(header))
		record = append(record, row.Time.UTC().Format(time.RFC3339))
		for _, s := range t.Symbols {
			record = append(record, strconv.FormatInt(row.Positions[s], 10))
		}
		record = append(record,
			row.Cash.String(),
			row.Commission.String(),
			row.Total.String(),
			row.Returns.String(),
			row.EquityCurve.String())
		if err = w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Load reads back the table saved for the run
func (r *RunContext) Load(number int64) (*Table, error) {
	if r == nil {
		return nil, fmt.Errorf("%w run context", common.ErrNilPointer)
	}
	if number < 1 {
		return nil, fmt.Errorf("%w %d", errInvalidNumber, number)
	}
	contents, err := os.ReadFile(r.path(number, ".json"))
	if err != nil {
		return nil, err
	}
	t := &Table{}
	if err = json.Unmarshal(contents, t); err != nil {
		return nil, fmt.Errorf("backtest %d: %w", number, err)
	}
	return t, nil
}

// LoadLatest walks back from the current run number to the newest run with
// saved results
func (r *RunContext) LoadLatest() (*Table, error) {
	for n := r.Current(); n > 0; n-- {
		t, err := r.Load(n)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return t, err
	}
	return nil, fmt.Errorf("%w in %v", fs.ErrNotExist, r.dir)
}

// LogWriter opens backtest_N.log for the run. The caller closes it
func (r *RunContext) LogWriter(number int64) (*os.File, error) {
	if r == nil {
		return nil, fmt.Errorf("%w run context", common.ErrNilPointer)
	}
	if number < 1 {
		return nil, fmt.Errorf("%w %d", errInvalidNumber, number)
	}
	return os.OpenFile(r.path(number, ".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
}
