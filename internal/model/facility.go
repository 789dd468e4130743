package model

import (
	"fmt"
	"strings"
	"time"
)

type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportTennis     Sport = "tennis"
	SportSwimming   Sport = "swimming"
	SportGym        Sport = "gym"
)

// Sports все поддерживаемые виды спорта в порядке отображения
var Sports = []Sport{SportFootball, SportBasketball, SportTennis, SportSwimming, SportGym}

func (s Sport) Valid() bool {
	for _, known := range Sports {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSport разбирает вид спорта без учёта регистра
func ParseSport(s string) (Sport, error) {
	sport := Sport(strings.ToLower(strings.TrimSpace(s)))
	if !sport.Valid() {
		return "", fmt.Errorf("%w: unknown sport %q", ErrValidation, s)
	}
	return sport, nil
}

type Facility struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Sport     Sport     `json:"sport"`
	Price     int       `json:"price"`    // за час, в копейках/центах
	Capacity  string    `json:"capacity"` // например "22 players"
	Available bool      `json:"available"`
	Features  []string  `json:"features"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate проверяет поля перед созданием
func (f *Facility) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: facility name is required", ErrValidation)
	}
	if !f.Sport.Valid() {
		return fmt.Errorf("%w: unknown sport %q", ErrValidation, f.Sport)
	}
	if f.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}

// FacilityPatch частичное обновление площадки; nil означает "не менять"
type FacilityPatch struct {
	Name      *string
	Price     *int
	Capacity  *string
	Available *bool
	Features  *[]string
}

func (p FacilityPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Capacity == nil && p.Available == nil && p.Features == nil
}

// Apply применяет изменения к копии площадки
func (p FacilityPatch) Apply(f Facility) Facility {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	if p.Capacity != nil {
		f.Capacity = *p.Capacity
	}
	if p.Available != nil {
		f.Available = *p.Available
	}
	if p.Features != nil {
		f.Features = append([]string(nil), (*p.Features)...)
	}
	return f
}
