package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/service"
	"github.com/google/uuid"
)

const shortIDLength = 8

// parseFacilityID разбирает номер площадки, допускается префикс '#'
func parseFacilityID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: неверный номер площадки %q", model.ErrValidation, s)
	}
	return id, nil
}

// parseDay разбирает дату; понимает today/tomorrow
func parseDay(s string, now time.Time) (model.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "сегодня":
		return model.DateOf(now), nil
	case "tomorrow", "завтра":
		return model.DateOf(now.AddDate(0, 0, 1)), nil
	}
	return model.ParseDate(s)
}

// parseBookArgs: <площадка> <дата> <начало> <конец> [заметка]
func parseBookArgs(args []string, now time.Time) (service.CreateBookingInput, error) {
	if len(args) < 4 {
		return service.CreateBookingInput{}, usage("/book <площадка> <YYYY-MM-DD> <HH:MM> <HH:MM> [заметка]")
	}

	facilityID, err := parseFacilityID(args[0])
	if err != nil {
		return service.CreateBookingInput{}, err
	}
	date, err := parseDay(args[1], now)
	if err != nil {
		return service.CreateBookingInput{}, err
	}
	start, err := model.ParseClock(args[2])
	if err != nil {
		return service.CreateBookingInput{}, err
	}
	end, err := model.ParseClock(args[3])
	if err != nil {
		return service.CreateBookingInput{}, err
	}

	return service.CreateBookingInput{
		FacilityID: facilityID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Notes:      strings.Join(args[4:], " "),
	}, nil
}

// parseMoveArgs: <бронь> <дата> <начало> <конец> [площадка]
func parseMoveArgs(args []string, now time.Time) (string, model.BookingChanges, error) {
	if len(args) < 4 || len(args) > 5 {
		return "", model.BookingChanges{}, usage("/move <бронь> <YYYY-MM-DD> <HH:MM> <HH:MM> [площадка]")
	}

	date, err := parseDay(args[1], now)
	if err != nil {
		return "", model.BookingChanges{}, err
	}
	start, err := model.ParseClock(args[2])
	if err != nil {
		return "", model.BookingChanges{}, err
	}
	end, err := model.ParseClock(args[3])
	if err != nil {
		return "", model.BookingChanges{}, err
	}

	changes := model.BookingChanges{Date: &date, StartTime: &start, EndTime: &end}
	if len(args) == 5 {
		facilityID, err := parseFacilityID(args[4])
		if err != nil {
			return "", model.BookingChanges{}, err
		}
		changes.FacilityID = &facilityID
	}

	return args[0], changes, nil
}

// parseDayArgs: <площадка> [дата]; без даты берётся сегодня
func parseDayArgs(args []string, now time.Time) (int64, model.Date, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, model.Date{}, usage("/day <площадка> [YYYY-MM-DD]")
	}

	facilityID, err := parseFacilityID(args[0])
	if err != nil {
		return 0, model.Date{}, err
	}
	if len(args) == 1 {
		return facilityID, model.DateOf(now), nil
	}

	date, err := parseDay(args[1], now)
	if err != nil {
		return 0, model.Date{}, err
	}
	return facilityID, date, nil
}

// parsePrice переводит сумму в рублях ("1500", "1500.50", "1500,5") в копейки
func parsePrice(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	whole, frac, hasFrac := strings.Cut(s, ".")

	rubles, err := strconv.Atoi(whole)
	if err != nil || rubles < 0 || strings.HasPrefix(whole, "+") {
		return 0, fmt.Errorf("%w: неверная сумма %q", model.ErrValidation, s)
	}

	kopecks := 0
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("%w: неверная сумма %q", model.ErrValidation, s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		kopecks, err = strconv.Atoi(frac)
		if err != nil || kopecks < 0 {
			return 0, fmt.Errorf("%w: неверная сумма %q", model.ErrValidation, s)
		}
	}

	return rubles*100 + kopecks, nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "1", "вкл", "да":
		return true, nil
	case "off", "no", "0", "выкл", "нет":
		return false, nil
	}
	return false, fmt.Errorf("%w: ожидается on или off", model.ErrValidation)
}

// resolveBookingRef находит бронь по полному UUID или по первым 8 символам среди доступных пользователю
func (h *Handlers) resolveBookingRef(ctx context.Context, actor model.Actor, ref string) (uuid.UUID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))

	if len(ref) != shortIDLength {
		id, err := uuid.Parse(ref)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: неверный номер брони %q", model.ErrValidation, ref)
		}
		return id, nil
	}

	if !isHex(ref) {
		return uuid.Nil, fmt.Errorf("%w: неверный номер брони %q", model.ErrValidation, ref)
	}

	visible, err := withRetry(ctx, h, "resolve booking", func(ctx context.Context) ([]*model.Booking, error) {
		return h.queryService.ByIDPrefix(ctx, actor, ref)
	})
	if err != nil {
		return uuid.Nil, err
	}

	var matches []uuid.UUID
	for _, booking := range visible {
		if strings.HasPrefix(booking.ID.String(), ref) {
			matches = append(matches, booking.ID)
		}
	}

	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("booking %s: %w", ref, model.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%w: несколько броней начинаются с %s, укажите полный номер", model.ErrValidation, ref)
	}
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
