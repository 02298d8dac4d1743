package render

import (
	"image/color"
	"strconv"

	"github.com/fogleman/gg"
)

const (
	chartWidth       = 1000
	chartRowHeight   = 44
	chartTop         = 70
	chartBottom      = 30
	chartLabelsWidth = 220
	chartValueWidth  = 90
	chartBarPadding  = 8
)

var chartBarColor = color.RGBA{52, 152, 219, 255}

// Bar is one row of a horizontal bar chart
type Bar struct {
	Label string
	Value float64
	// Color is a hex color; empty means the default bar color
	Color string
}

// BarChart draws a horizontal bar chart, one row per bar in the given order.
// Bars are scaled against the largest value.
func BarChart(title string, bars []Bar) ([]byte, error) {
	rows := max(len(bars), 1)
	height := chartTop + rows*chartRowHeight + chartBottom

	dc := gg.NewContext(chartWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()

	setFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, chartWidth/2, chartTop/2, 0.5, 0.5)

	if len(bars) == 0 {
		setFont(dc, hourFontSize, FontStyleMedium)
		dc.SetColor(hourLabelColor)
		dc.DrawStringAnchored("no data", chartWidth/2, chartTop+chartRowHeight/2, 0.5, 0.5)
		return encodePNG(dc)
	}

	var maxValue float64
	for _, b := range bars {
		maxValue = max(maxValue, b.Value)
	}
	scale := 0.0
	if maxValue > 0 {
		scale = float64(chartWidth-chartLabelsWidth-chartValueWidth) / maxValue
	}

	for i, b := range bars {
		y := float64(chartTop + i*chartRowHeight)
		mid := y + chartRowHeight/2

		setFont(dc, hourFontSize, FontStyleMedium)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(truncate(b.Label, 24), chartLabelsWidth-12, mid, 1, 0.5)

		w := b.Value * scale
		if b.Color != "" {
			dc.SetHexColor(b.Color)
		} else {
			dc.SetColor(chartBarColor)
		}
		dc.DrawRoundedRectangle(chartLabelsWidth, y+chartBarPadding, w, chartRowHeight-2*chartBarPadding, 4)
		dc.Fill()

		dc.SetColor(hourLabelColor)
		dc.DrawStringAnchored(strconv.FormatFloat(b.Value, 'f', 1, 64), chartLabelsWidth+w+8, mid, 0, 0.5)
	}

	return encodePNG(dc)
}
