package http

import (
	"fmt"
	"strings"

	"flazz/internal/core"

	"github.com/shopspring/decimal"
)

const (
	chartWidth  = 320
	chartHeight = 120
)

type (
	chartView struct {
		Title  string
		Width  int
		Height int
		Points string
		Bars   []barView
		Empty  bool
	}

	barView struct {
		Label    string
		Amount   string
		X, Y     float64
		W, H     float64
		Negative bool
	}
)

// chartViews lays out the four series the card page shows.
func chartViews(c core.Charts) []chartView {
	return []chartView{
		barChart("Spending Pattern", c.SpendingPattern),
		lineChart("Deposit History", c.DepositHistory),
		lineChart("Spending History", c.SpendingHistory),
		lineChart("Transaction Statistics", c.TransactionStats),
	}
}

func lineChart(title string, points []core.Point) chartView {
	return chartView{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Points: polyline(points, chartWidth, chartHeight),
		Empty:  len(points) == 0,
	}
}

// polyline spaces samples evenly on x and scales amounts to the full height.
// A flat series is drawn across the middle.
func polyline(points []core.Point, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := points[0].Amount, points[0].Amount
	for _, p := range points[1:] {
		lo = decimal.Min(lo, p.Amount)
		hi = decimal.Max(hi, p.Amount)
	}
	span := hi.Sub(lo).InexactFloat64()

	var b strings.Builder
	for i, p := range points {
		x := float64(width) / 2
		if len(points) > 1 {
			x = float64(i) * float64(width) / float64(len(points)-1)
		}
		y := float64(height) / 2
		if span > 0 {
			y = float64(height) - p.Amount.Sub(lo).InexactFloat64()/span*float64(height)
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return b.String()
}

func barChart(title string, amounts []core.CategoryAmount) chartView {
	v := chartView{Title: title, Width: chartWidth, Height: chartHeight, Empty: len(amounts) == 0}
	if v.Empty {
		return v
	}
	maxAbs := decimal.Zero
	for _, a := range amounts {
		maxAbs = decimal.Max(maxAbs, a.Amount.Abs())
	}
	slot := float64(chartWidth) / float64(len(amounts))
	for i, a := range amounts {
		h := 0.0
		if maxAbs.IsPositive() {
			h = a.Amount.Abs().Div(maxAbs).InexactFloat64() * chartHeight
		}
		v.Bars = append(v.Bars, barView{
			Label:    a.Name,
			Amount:   core.FormatCurrency(a.Amount),
			X:        float64(i)*slot + slot*0.1,
			Y:        chartHeight - h,
			W:        slot * 0.8,
			H:        h,
			Negative: a.Amount.IsNegative(),
		})
	}
	return v
}
