package math

import (
	"math"
)

// CalculatePercentageGainOrLoss returns the percentage rise over a certain
// period
func CalculatePercentageGainOrLoss(priceNow, priceThen float64) float64 {
	if priceThen == 0 {
		return 0
	}
	return (priceNow - priceThen) / priceThen * 100
}

// RoundFloat rounds your floating point number to the desired decimal place
func RoundFloat(x float64, prec int) float64 {
	pow := math.Pow(10, float64(prec))
	return math.Round(x*pow) / pow
}

// CalculateCompoundAnnualGrowthRate Calculates CAGR.
// Using days, intervals per year would be 252 and number of intervals would be the number of trading days
func CalculateCompoundAnnualGrowthRate(openValue, closeValue, intervalsPerYear, numberOfIntervals float64) float64 {
	if openValue <= 0 || numberOfIntervals <= 0 {
		return 0
	}
	k := math.Pow(closeValue/openValue, intervalsPerYear/numberOfIntervals) - 1
	return k * 100
}

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// PopulationStandardDeviation calculates standard deviation using population based calculation
func PopulationStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := ArithmeticAverage(values)
	diffs := make([]float64, len(values))
	for x := range values {
		diffs[x] = math.Pow(values[x]-avg, 2)
	}
	return math.Sqrt(ArithmeticAverage(diffs))
}

// SampleStandardDeviation measures the dispersion of a dataset relative to
// its mean using the n-1 denominator
func SampleStandardDeviation(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(values)
	var combined float64
	for i := range values {
		combined += math.Pow(values[i]-mean, 2)
	}
	return math.Sqrt(combined / float64(len(values)-1))
}

// AnnualisedSharpeRatio returns sqrt(periods) * mean / std of the per period
// returns, assuming a zero risk-free rate. A flat series returns 0
func AnnualisedSharpeRatio(returns []float64, periods float64) float64 {
	if len(returns) <= 1 {
		return 0
	}
	std := PopulationStandardDeviation(returns)
	if std == 0 {
		return 0
	}
	return math.Sqrt(periods) * ArithmeticAverage(returns) / std
}

// CalculateSortinoRatio returns sortino ratio of a series of returns compared to risk-free
func CalculateSortinoRatio(returns []float64, riskFreeRate, average float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	totalNegativeResultsSquared := 0.0
	for x := range returns {
		if returns[x]-riskFreeRate < 0 {
			totalNegativeResultsSquared += math.Pow(returns[x]-riskFreeRate, 2)
		}
	}
	averageDownsideDeviation := math.Sqrt(totalNegativeResultsSquared / float64(len(returns)))
	if averageDownsideDeviation == 0 {
		return 0
	}
	return (average - riskFreeRate) / averageDownsideDeviation
}

// Drawdown walks an equity curve against its high water mark. It returns the
// largest fractional fall from a peak and the longest run of periods spent
// below a peak
func Drawdown(equity []float64) (maxDrawdown float64, maxDuration int) {
	var highWaterMark float64
	var duration int
	for i := range equity {
		if equity[i] >= highWaterMark {
			highWaterMark = equity[i]
			duration = 0
			continue
		}
		duration++
		if highWaterMark > 0 {
			if dd := (highWaterMark - equity[i]) / highWaterMark; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
		if duration > maxDuration {
			maxDuration = duration
		}
	}
	return maxDrawdown, maxDuration
}
