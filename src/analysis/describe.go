package analysis

import (
	"time"

	"stock-trend/src/analysis/core"
	"stock-trend/src/models"
	"stock-trend/src/utils"
)

var describeColumns = []struct {
	name string
	get  func(models.MPriceBar) float64
}{
	{"Open", func(b models.MPriceBar) float64 { return b.Open }},
	{"High", func(b models.MPriceBar) float64 { return b.High }},
	{"Low", func(b models.MPriceBar) float64 { return b.Low }},
	{"Close", func(b models.MPriceBar) float64 { return b.Close }},
	{"Volume", func(b models.MPriceBar) float64 { return b.Volume }},
}

// -----------------------------------------------------------------------------

// Describe summarizes each price column: count, mean, sample std, min, quartiles, max.
// An empty series yields zero-count columns.
func Describe(series *models.MPriceSeries) []models.MDescribeColumn {
	out := make([]models.MDescribeColumn, 0, len(describeColumns))
	values := make([]float64, series.Len())

	for _, col := range describeColumns {
		d := models.MDescribeColumn{Column: col.name, Count: len(values)}
		if len(values) > 0 {
			for i, b := range series.Bars {
				values[i] = col.get(b)
			}
			d.Mean, d.Std = core.CalculateMeanStd(values)
			d.Min, d.Max = core.MinMax(values)
			q := core.Quantiles(values, 0.25, 0.5, 0.75)
			d.Q1, d.Median, d.Q3 = q[0], q[1], q[2]
		}
		out = append(out, d)
	}
	return out
}

// -----------------------------------------------------------------------------

// CloseHistory flattens the series into (date, close) points for the price chart.
func CloseHistory(series *models.MPriceSeries) []models.MClosePoint {
	out := make([]models.MClosePoint, series.Len())
	for i := range out {
		out[i] = models.MClosePoint{Date: series.Bars[i].Date, Close: series.Bars[i].Close}
	}
	return out
}

// -----------------------------------------------------------------------------

// Coverage compares the sessions the symbol's exchange held in [start, end) with the bars received.
func Coverage(series *models.MPriceSeries, start, end time.Time) models.MCoverage {
	cal := utils.GetCalendar(series.Symbol, start, end)
	cov := models.MCoverage{
		Exchange:         cal.MIC,
		ExpectedSessions: cal.CountSessions(start, end),
		ReceivedBars:     series.Len(),
	}
	if cov.ExpectedSessions > 0 {
		cov.Ratio = float64(cov.ReceivedBars) / float64(cov.ExpectedSessions)
	}
	return cov
}
