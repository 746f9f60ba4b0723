package statistics

import (
	"fmt"
	"math"

	"github.com/thrasher-corp/barbacktester/common"
	gctmath "github.com/thrasher-corp/barbacktester/common/math"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/thrasher-corp/barbacktester/results"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Calculate summarises a results table. periodsPerYear annualises the
// Sharpe ratio and CAGR, 252 for daily bars. The first row's return is
// excluded from the Sharpe ratio as it has no prior total
func Calculate(t *results.Table, periodsPerYear float64) (*Statistic, error) {
	if t == nil {
		return nil, errNilTable
	}
	if len(t.Rows) == 0 {
		return nil, results.ErrNoRows
	}
	if periodsPerYear <= 0 {
		return nil, fmt.Errorf("%w, received %v", errInvalidPeriods, periodsPerYear)
	}
	first, last := t.Rows[0], t.Rows[len(t.Rows)-1]
	s := &Statistic{
		BacktestNumber:  t.Number,
		StartDate:       first.Time,
		EndDate:         last.Time,
		Periods:         len(t.Rows),
		StartingTotal:   first.Total,
		EndingTotal:     last.Total,
		TotalCommission: last.Commission,
	}

	returns := make([]float64, 0, len(t.Rows))
	equity := make([]float64, len(t.Rows))
	for i := range t.Rows {
		equity[i] = t.Rows[i].EquityCurve.InexactFloat64()
		if i > 0 {
			returns = append(returns, t.Rows[i].Returns.InexactFloat64())
		}
	}
	s.TotalReturn = gctmath.RoundFloat(gctmath.CalculatePercentageGainOrLoss(last.Total.InexactFloat64(), first.Total.InexactFloat64()), precision)
	s.SharpeRatio = gctmath.RoundFloat(gctmath.AnnualisedSharpeRatio(returns, periodsPerYear), precision)
	annualise := math.Sqrt(periodsPerYear)
	s.SortinoRatio = gctmath.RoundFloat(annualise*gctmath.CalculateSortinoRatio(returns, 0, gctmath.ArithmeticAverage(returns)), precision)
	s.Volatility = gctmath.RoundFloat(annualise*gctmath.SampleStandardDeviation(returns)*100, precision)
	maxDrawdown, duration := gctmath.Drawdown(equity)
	s.MaxDrawdown = gctmath.RoundFloat(maxDrawdown*100, precision)
	s.DrawdownDuration = duration
	s.CAGR = gctmath.RoundFloat(gctmath.CalculateCompoundAnnualGrowthRate(
		first.Total.InexactFloat64(),
		last.Total.InexactFloat64(),
		periodsPerYear,
		float64(len(t.Rows))), precision)
	s.PositionIncreases, s.PositionDecreases = countPositionChanges(t)
	return s, nil
}

func countPositionChanges(t *results.Table) (increases, decreases int64) {
	for i := 1; i < len(t.Rows); i++ {
		for _, sym := range t.Symbols {
			diff := t.Rows[i].Positions[sym] - t.Rows[i-1].Positions[sym]
			switch {
			case diff > 0:
				increases++
			case diff < 0:
				decreases++
			}
		}
	}
	return increases, decreases
}

// PrintResults logs the summary to the results sub-logger
func (s *Statistic) PrintResults() {
	if s == nil {
		return
	}
	sl := common.SubLoggers[common.Results]
	title := cases.Title(language.English)
	header := "backtest results"
	if s.StrategyName != "" {
		header = s.StrategyName + " " + header
	}
	log.Info(sl, "------------------"+title.String(header)+"------------------")
	log.Infof(sl, "%v: %v", title.String("backtest number"), s.BacktestNumber)
	log.Infof(sl, "%v: %v to %v, %d periods", title.String("date range"), s.StartDate, s.EndDate, s.Periods)
	log.Infof(sl, "%v: %v", title.String("starting total"), s.StartingTotal.StringFixed(2))
	log.Infof(sl, "%v: %v", title.String("ending total"), s.EndingTotal.StringFixed(2))
	log.Infof(sl, "%v: %.2f%%", title.String("total return"), s.TotalReturn)
	log.Infof(sl, "%v: %.2f", title.String("sharpe ratio"), s.SharpeRatio)
	log.Infof(sl, "%v: %.2f", title.String("sortino ratio"), s.SortinoRatio)
	log.Infof(sl, "%v: %.2f%%", title.String("annualised volatility"), s.Volatility)
	log.Infof(sl, "%v: %.2f%%", title.String("max drawdown"), s.MaxDrawdown)
	log.Infof(sl, "%v: %d", title.String("drawdown duration"), s.DrawdownDuration)
	log.Infof(sl, "%v: %.2f%%", title.String("compound annual growth rate"), s.CAGR)
	log.Infof(sl, "%v: %v", title.String("total commission"), s.TotalCommission.StringFixed(2))
	log.Infof(sl, "%v: %d, %v: %d", title.String("position increases"), s.PositionIncreases, title.String("position decreases"), s.PositionDecreases)
}
