package dayimage

import (
	"bytes"
	"fmt"
	"image/color"
	"unicode"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth       = 720
	imageHeight      = 960
	headerHeight     = 70
	footerHeight     = 50
	leftLabelsWidth  = 70
	paddingRight     = 20
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0

	// DefaultStartHour первый час сетки, если раньше ничего не забронировано
	DefaultStartHour = 6
	lastHour         = 24
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	gridColor      = color.NRGBA{233, 240, 228, 255}

	slotPendingColor   = color.RGBA{255, 214, 140, 235}
	slotConfirmedColor = color.RGBA{255, 182, 193, 255}
	slotCompletedColor = color.RGBA{190, 190, 200, 230}
	slotDefaultColor   = color.RGBA{220, 220, 220, 200}
	slotTextColor      = color.RGBA{20, 24, 28, 230}
	slotShadowColor    = color.RGBA{0, 0, 0, 20}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// Render рисует PNG с занятыми интервалами площадки за день.
// Свободное время остаётся фоном сетки.
func Render(facility *model.Facility, date model.Date, bookings []*model.Booking) ([]byte, error) {
	hours := calculateHourRange(bookings)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	gridHeight := float64(imageHeight - headerHeight - footerHeight)
	cellHeight := gridHeight / float64(hours.total)
	gridWidth := float64(imageWidth - leftLabelsWidth - paddingRight)

	drawHeader(dc, facility, date)
	drawGrid(dc, hours, cellHeight, gridWidth)
	for _, booking := range bookings {
		if booking.Blocking() {
			drawBooking(dc, booking, hours, cellHeight, gridWidth)
		}
	}
	drawLegend(dc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// calculateHourRange расширяет сетку вверх, если есть ранние брони
func calculateHourRange(bookings []*model.Booking) hourRange {
	start := DefaultStartHour
	for _, booking := range bookings {
		if booking.Blocking() && booking.StartTime.Hour() < start {
			start = booking.StartTime.Hour()
		}
	}
	return hourRange{start: start, end: lastHour, total: lastHour - start}
}

// drawHeader рисует название площадки и дату
func drawHeader(dc *gg.Context, facility *model.Facility, date model.Date) {
	title := fmt.Sprintf("Facility #%d", facility.ID)
	if isASCII(facility.Name) && facility.Name != "" {
		title += " " + facility.Name
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/3, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%s  %s", date, date.Time().Weekday()), float64(leftLabelsWidth), float64(headerHeight)*2/3, 0, 0.5)
}

// drawGrid рисует подписи часов и горизонтальные линии
func drawGrid(dc *gg.Context, hours hourRange, cellHeight, gridWidth float64) {
	x := float64(leftLabelsWidth)
	y := float64(headerHeight)

	dc.SetColor(gridColor)
	dc.DrawRectangle(x, y, gridWidth, cellHeight*float64(hours.total))
	dc.Fill()

	dc.SetLineWidth(0.3)
	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight

		dc.SetColor(hourLineColor)
		dc.DrawLine(x, hy, x+gridWidth, hy)
		dc.Stroke()

		dc.SetColor(hourLabelColor)
		dc.DrawStringAnchored(model.Clock((hours.start+hIdx)*60).String(), x-10, hy, 1, 0.5)
	}
}

// drawBooking рисует один занятый интервал
func drawBooking(dc *gg.Context, booking *model.Booking, hours hourRange, cellHeight, gridWidth float64) {
	startHour := float64(booking.StartTime.Minutes()) / 60.0
	endHour := float64(booking.EndTime.Minutes()) / 60.0

	slotY := float64(headerHeight) + (startHour-float64(hours.start))*cellHeight
	slotHeight := (endHour - startHour) * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}

	x := float64(leftLabelsWidth) + 8
	width := gridWidth - 16
	fillColor := statusColor(booking.Status)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, slotY+2+shadowOffset, width, slotHeight-4, slotBorderRadius)
	dc.Fill()

	// Основной прямоугольник
	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x, slotY+2, width, slotHeight-4, slotBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, slotY+2, width, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	if slotHeight > 16 {
		dc.SetColor(slotTextColor)
		label := fmt.Sprintf("%s  %s", booking.Interval(), booking.Status)
		dc.DrawStringAnchored(label, x+8, slotY+12, 0, 0.5)
	}
}

// statusColor цвет брони по статусу
func statusColor(status model.BookingStatus) color.RGBA {
	switch status {
	case model.BookingStatusPending:
		return slotPendingColor
	case model.BookingStatusConfirmed:
		return slotConfirmedColor
	case model.BookingStatusCompleted:
		return slotCompletedColor
	default:
		return slotDefaultColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawLegend рисует легенду внизу
func drawLegend(dc *gg.Context) {
	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"free", gridColor},
		{"pending", slotPendingColor},
		{"confirmed", slotConfirmedColor},
		{"completed", slotCompletedColor},
	}

	boxW, boxH := 20.0, 14.0
	x := float64(leftLabelsWidth)
	y := float64(imageHeight-footerHeight) + 18

	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.Label, x+boxW+6, y+boxH/2, 0, 0.5)
		x += boxW + 6 + float64(len(item.Label))*7 + 24
	}
}

// isASCII basicfont содержит только ASCII
func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
