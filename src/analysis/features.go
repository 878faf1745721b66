package analysis

import (
	"stock-trend/src/analysis/core"
	"stock-trend/src/models"
	"stock-trend/src/utils"
)

// -----------------------------------------------------------------------------

// BuildFeatures derives MA_50, MA_200, Daily_Return and Volatility from the close column.
// Rows whose 200-day window is not yet full are dropped, as is any row holding a
// non-finite value. A clean series of N >= 200 bars yields N-199 rows.
func BuildFeatures(series *models.MPriceSeries) []models.MFeatureRow {
	closes := series.Closes()
	if len(closes) < utils.LongMAWindow {
		return []models.MFeatureRow{}
	}

	short := utils.NewRingBuffer(utils.ShortMAWindow)
	long := utils.NewRingBuffer(utils.LongMAWindow)
	vol := utils.NewRingBuffer(utils.VolatilityWindow)
	returns := core.PctChange(closes)

	rows := make([]models.MFeatureRow, 0, len(closes)-utils.LongMAWindow+1)
	var buf []float64

	for i, c := range closes {
		short.Append(c)
		long.Append(c)
		vol.Append(c)

		if !long.Full() {
			continue
		}

		buf = short.Window(buf)
		ma50 := core.CalculateMean(buf)
		buf = long.Window(buf)
		ma200 := core.CalculateMean(buf)
		buf = vol.Window(buf)
		_, volatility := core.CalculateMeanStd(buf)

		row := models.MFeatureRow{
			Date:        series.Bars[i].Date,
			MA50:        ma50,
			MA200:       ma200,
			DailyReturn: returns[i],
			Volatility:  volatility,
			Close:       c,
		}
		if !finiteRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func finiteRow(r models.MFeatureRow) bool {
	for _, v := range r.Vector() {
		if !core.IsFinite(v) {
			return false
		}
	}
	return core.IsFinite(r.Close)
}

// -----------------------------------------------------------------------------

// FeatureMatrix returns the model inputs and targets of rows.
func FeatureMatrix(rows []models.MFeatureRow) ([][]float64, []float64) {
	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Vector()
		y[i] = r.Close
	}
	return x, y
}
