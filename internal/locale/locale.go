// Package locale holds the two fixed narration locales and the phrase
// tables used to render route progress in each of them.
package locale

import (
	"errors"
	"strconv"
	"strings"

	"github.com/JakeFAU/route-narrator/internal/route"
	"github.com/JakeFAU/route-narrator/internal/units"
)

// Messages shown before a locale has been chosen.
const (
	Prompt       = "Lütfen dili seçiniz\n 1.tr 2.en"
	InvalidInput = "Lütfen geçerli bir işlem giriniz!"
)

// ErrInvalidSelection is returned for any token other than the two
// recognised locale numbers.
var ErrInvalidSelection = errors.New("invalid locale selection")

// Phrases is the fixed vocabulary of a locale.
type Phrases struct {
	Road      string
	Completed string
	NextStep  string
	Straight  string
	Left      string
	Right     string
	Started   string
	Finished  string
}

// Locale bundles a display unit with its phrase table.
type Locale struct {
	Tag     string
	Token   int
	Unit    units.System
	Phrases Phrases
}

// The supported locales.
var (
	TR = Locale{
		Tag:   "tr",
		Token: 1,
		Unit:  units.Kilometre,
		Phrases: Phrases{
			Road:      "yol",
			Completed: "tamamlandı",
			NextStep:  "bir sonraki adım",
			Straight:  "düz",
			Left:      "sol",
			Right:     "sağ",
			Started:   "Başladı",
			Finished:  "Bitti",
		},
	}
	EN = Locale{
		Tag:   "en",
		Token: 2,
		Unit:  units.Mile,
		Phrases: Phrases{
			Road:      "Road",
			Completed: "completed",
			NextStep:  "next step",
			Straight:  "straight",
			Left:      "left",
			Right:     "right",
			Started:   "Started",
			Finished:  "Finished",
		},
	}
)

var byToken = func() map[int]Locale {
	m := make(map[int]Locale)
	for _, loc := range All() {
		m[loc.Token] = loc
	}
	return m
}()

// Select maps a user-supplied token to a Locale. Surrounding whitespace is
// ignored; non-numeric and unknown tokens yield ErrInvalidSelection.
func Select(token string) (Locale, error) {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return Locale{}, ErrInvalidSelection
	}
	loc, ok := byToken[n]
	if !ok {
		return Locale{}, ErrInvalidSelection
	}
	return loc, nil
}

// All returns the supported locales ordered by token.
func All() []Locale {
	return []Locale{TR, EN}
}

// Convert expresses distance in the locale's display unit.
func (l Locale) Convert(distance int) float64 {
	return units.Convert(distance, l.Unit)
}

// UnitName returns the display unit name.
func (l Locale) UnitName() string {
	return l.Unit.String()
}

// Name returns the localized word for a step kind. Markers map to their
// fixed phrase.
func (l Locale) Name(kind route.Kind) string {
	switch kind {
	case route.KindStraight:
		return l.Phrases.Straight
	case route.KindLeft:
		return l.Phrases.Left
	case route.KindRight:
		return l.Phrases.Right
	case route.KindStarted:
		return l.Phrases.Started
	case route.KindFinish:
		return l.Phrases.Finished
	default:
		return string(kind)
	}
}
