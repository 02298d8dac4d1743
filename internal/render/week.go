// Package render draws schedule images as PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"github.com/fogleman/gg"
)

// Размеры и отступы
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	rightPadding     = 20
	dayPaddingX      = 8
	minBlockHeight   = 8.0
	blockRadius      = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	titleFontSize    = 25.0
	dayFontSize      = 24.0
	hourFontSize     = 16.0
	blockFontSize    = 15.0
	blockTextMaxRune = 22
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 60}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{228, 228, 228, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	blockTextColor   = color.RGBA{255, 255, 255, 240}
	blockBorderColor = color.RGBA{0, 0, 0, 60}
	blockShadowColor = color.RGBA{0, 0, 0, 20}
	fallbackColor    = "#95a5a6"
)

// WeekOptions configures WeekImage. Date is any day of the week to draw.
// A zero Grid means timegrid.Week. A non-zero Now enables the today highlight
// and the current-time line. TeacherNames labels blocks when several teachers
// share the image.
type WeekOptions struct {
	Date         time.Time
	Grid         timegrid.Grid
	Now          time.Time
	TeacherNames map[int64]string
	Title        string
}

// WeekStart returns the Monday of the week containing date
func WeekStart(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekImage draws the bookings of one Monday..Sunday week. Bookings outside that
// week are skipped; blocks are placed with grid offsets and filled with the booking color.
func WeekImage(bookings []model.Booking, opts WeekOptions) ([]byte, error) {
	grid := opts.Grid
	if grid.Len() == 0 {
		grid = timegrid.Week
	}
	start := WeekStart(opts.Date)

	byDay := make(map[string][]model.Booking)
	for _, b := range bookings {
		byDay[b.Date] = append(byDay[b.Date], b)
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := float64(imageWidth-leftLabelsWidth-rightPadding) / totalDaysInWeek
	dayHeight := float64(imageHeight - headerHeight)
	slotHeight := dayHeight / float64(grid.Len())

	drawTitle(dc, start, opts.Title)
	drawSlotLabels(dc, grid, slotHeight)

	today := ""
	if !opts.Now.IsZero() {
		today = opts.Now.Format(time.DateOnly)
	}

	for i := 0; i < totalDaysInWeek; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format(time.DateOnly)
		x := float64(leftLabelsWidth) + float64(i)*dayWidth
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, key == today)
		drawDayHeader(dc, day, x, y, dayWidth)
		drawSlotLines(dc, x, y, dayWidth, grid, slotHeight)
		for _, b := range byDay[key] {
			drawBooking(dc, b, grid, x, y, dayWidth, slotHeight, opts.TeacherNames)
		}
	}

	if today != "" {
		drawCurrentTimeLine(dc, opts.Now, grid, slotHeight, dayWidth)
	}

	return encodePNG(dc)
}

func drawTitle(dc *gg.Context, start time.Time, title string) {
	end := start.AddDate(0, 0, totalDaysInWeek-1)
	text := fmt.Sprintf("%s - %s", start.Format("02 Jan"), end.Format("02 Jan 2006"))
	if title != "" {
		text = title + "  " + text
	}

	setFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(text, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

// drawSlotLabels подписывает каждый час сетки
func drawSlotLabels(dc *gg.Context, grid timegrid.Grid, slotHeight float64) {
	setFont(dc, hourFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for i, s := range grid.Slots() {
		if (grid.Open+i*grid.Step)%60 != 0 {
			continue
		}
		y := float64(headerHeight) + float64(i)*slotHeight
		dc.DrawStringAnchored(s, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y, w, h float64, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, day time.Time, x, y, w float64) {
	setFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(day.Format("02.01"), x+w/2, y, 0.5, -1)
	dc.DrawStringAnchored(day.Weekday().String()[:3], x+w/2, y, 0.5, -0.2)
}

func drawSlotLines(dc *gg.Context, x, y, w float64, grid timegrid.Grid, slotHeight float64) {
	dc.SetColor(hourLineColor)
	for i := 0; i <= grid.Len(); i++ {
		// получасовые линии тоньше часовых
		if (grid.Open+i*grid.Step)%60 == 0 {
			dc.SetLineWidth(0.5)
		} else {
			dc.SetLineWidth(0.2)
		}
		ly := y + float64(i)*slotHeight
		dc.DrawLine(x, ly, x+w, ly)
		dc.Stroke()
	}
}

// blockBounds returns the vertical position of a booking, clipped to the grid.
// ok is false when the booking is malformed or entirely outside the grid.
func blockBounds(b model.Booking, grid timegrid.Grid, top, slotHeight float64) (y, h float64, ok bool) {
	from, err := grid.Offset(b.StartTime)
	if err != nil {
		return 0, 0, false
	}
	to, err := grid.Offset(b.EndTime)
	if err != nil {
		return 0, 0, false
	}

	span := grid.Close - grid.Open
	from = max(from, 0)
	to = min(to, span)
	if to <= from {
		return 0, 0, false
	}

	perMinute := slotHeight / float64(grid.Step)
	y = top + float64(from)*perMinute
	h = max(float64(to-from)*perMinute, minBlockHeight)
	return y, h, true
}

func drawBooking(dc *gg.Context, b model.Booking, grid timegrid.Grid, x, top, dayWidth, slotHeight float64, names map[int64]string) {
	y, h, ok := blockBounds(b, grid, top, slotHeight)
	if !ok {
		return
	}
	w := dayWidth - dayPaddingX*2
	bx := x + dayPaddingX

	dc.SetColor(blockShadowColor)
	dc.DrawRoundedRectangle(bx+shadowOffset, y+2+shadowOffset, w, h-4, blockRadius)
	dc.Fill()

	hex := b.Color
	if hex == "" {
		hex = fallbackColor
	}
	dc.SetHexColor(hex)
	dc.DrawRoundedRectangle(bx, y+2, w, h-4, blockRadius)
	dc.Fill()

	dc.SetColor(blockBorderColor)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(bx, y+2, w, h-4, blockRadius)
	dc.Stroke()

	setFont(dc, blockFontSize, FontStyleMedium)
	dc.SetColor(blockTextColor)
	tx := bx + 8
	ty := y + 18
	dc.DrawStringAnchored(b.StartTime+"-"+b.EndTime, tx, ty, 0, 0)

	lines := []string{b.Subject}
	if name := names[b.TeacherID]; name != "" {
		lines = append(lines, name)
	}
	setFont(dc, blockFontSize-2, FontStyleRegular)
	for _, line := range lines {
		ty += 16
		if line == "" || ty > y+h-6 {
			continue
		}
		dc.DrawStringAnchored(truncate(line, blockTextMaxRune), tx, ty, 0, 0)
	}
}

func drawCurrentTimeLine(dc *gg.Context, now time.Time, grid timegrid.Grid, slotHeight, dayWidth float64) {
	minutes := now.Hour()*60 + now.Minute()
	if minutes < grid.Open || minutes > grid.Close {
		return
	}

	y := float64(headerHeight) + float64(minutes-grid.Open)*slotHeight/float64(grid.Step)
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth)+totalDaysInWeek*dayWidth, y)
	dc.Stroke()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
