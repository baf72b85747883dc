package profile

import (
	"strconv"
	"strings"
)

// Experience bands. Boundaries are inclusive at the lower edge:
// [0,1) [1,3) [3,5) [5,inf).
const (
	BandUnderOne  = "<1"
	BandOneToTwo  = "1-2"
	BandThreeFive = "3-5"
	BandFivePlus  = "5+"
)

var Bands = []string{BandUnderOne, BandOneToTwo, BandThreeFive, BandFivePlus}

var bandTokens = map[string]string{
	"<1":             BandUnderOne,
	"0-1":            BandUnderOne,
	"lessthan1":      BandUnderOne,
	"less_than_one":  BandUnderOne,
	"1-2":            BandOneToTwo,
	"one_to_two":     BandOneToTwo,
	"3-5":            BandThreeFive,
	"three_to_five":  BandThreeFive,
	"5+":             BandFivePlus,
	"five_plus":      BandFivePlus,
	"more_than_five": BandFivePlus,
}

// BandForYears maps a number of years to its band. Negative values have no band.
func BandForYears(years float64) string {
	switch {
	case years < 0:
		return ""
	case years < 1:
		return BandUnderOne
	case years < 3:
		return BandOneToTwo
	case years < 5:
		return BandThreeFive
	default:
		return BandFivePlus
	}
}

// ExperienceBand maps a stored experience value, either an enumeration token
// or a raw number of years, to its band. It returns "" when the value cannot
// be interpreted.
func ExperienceBand(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	value = strings.NewReplacer("–", "-", "—", "-", " ", "").Replace(value)
	value = strings.TrimSuffix(strings.TrimSuffix(value, "years"), "year")
	if band, ok := bandTokens[value]; ok {
		return band
	}
	if years, err := strconv.ParseFloat(value, 64); err == nil {
		return BandForYears(years)
	}
	return ""
}
