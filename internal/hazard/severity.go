package hazard

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Category is a Saffir-Simpson hurricane classification, extended with the
// tropical depression and tropical storm stages below Category 1.
type Category string

const (
	TropicalDepression Category = "TD"
	TropicalStorm      Category = "TS"
	Category1          Category = "1"
	Category2          Category = "2"
	Category3          Category = "3"
	Category4          Category = "4"
	Category5          Category = "5"
)

// CategoryFromWind classifies a storm by maximum sustained wind in mph.
func CategoryFromWind(windMPH float64) Category {
	switch {
	case windMPH < 39:
		return TropicalDepression
	case windMPH < 74:
		return TropicalStorm
	case windMPH < 96:
		return Category1
	case windMPH < 111:
		return Category2
	case windMPH < 130:
		return Category3
	case windMPH < 157:
		return Category4
	default:
		return Category5
	}
}

// CategoryFromSaffirSimpson maps the feed's SSNUM field to a category.
// The feed uses -2 for depressions and -1/0 for tropical storms; anything
// out of range falls back to tropical storm, matching upstream behavior.
func CategoryFromSaffirSimpson(n int) Category {
	switch n {
	case -2:
		return TropicalDepression
	case -1, 0:
		return TropicalStorm
	case 1:
		return Category1
	case 2:
		return Category2
	case 3:
		return Category3
	case 4:
		return Category4
	case 5:
		return Category5
	default:
		return TropicalStorm
	}
}

// Description returns the human-readable name of the category.
func (c Category) Description() string {
	switch c {
	case TropicalDepression:
		return "Tropical Depression"
	case TropicalStorm:
		return "Tropical Storm"
	case Category1:
		return "Category 1 Hurricane"
	case Category2:
		return "Category 2 Hurricane"
	case Category3:
		return "Category 3 Hurricane (Major)"
	case Category4:
		return "Category 4 Hurricane (Major)"
	case Category5:
		return "Category 5 Hurricane (Major)"
	default:
		return "Unknown"
	}
}

// EFScale is an Enhanced Fujita tornado damage rating, 0 through 5.
type EFScale int

// EFScaleFromNumber validates a raw EF number from the feed. The second
// return is false for values outside 0-5 (including the -9 "unknown"
// sentinel some records carry).
func EFScaleFromNumber(n int) (EFScale, bool) {
	if n < 0 || n > 5 {
		return 0, false
	}
	return EFScale(n), true
}

// String returns the compact rating form, e.g. "EF3".
func (e EFScale) String() string {
	return fmt.Sprintf("EF%d", int(e))
}

// Description returns the rating with its damage class and wind range.
func (e EFScale) Description() string {
	switch e {
	case 0:
		return "EF0 - Light Damage (65-85 mph)"
	case 1:
		return "EF1 - Moderate Damage (86-110 mph)"
	case 2:
		return "EF2 - Significant Damage (111-135 mph)"
	case 3:
		return "EF3 - Severe Damage (136-165 mph)"
	case 4:
		return "EF4 - Devastating Damage (166-200 mph)"
	case 5:
		return "EF5 - Incredible Damage (200+ mph)"
	default:
		return "Unknown"
	}
}

// FireSize is a wildfire size class derived from burned acreage.
type FireSize string

const (
	FireSmall  FireSize = "small"  // < 100 acres
	FireMedium FireSize = "medium" // 100-1,000 acres
	FireLarge  FireSize = "large"  // 1,000-10,000 acres
	FireMajor  FireSize = "major"  // 10,000-100,000 acres
	FireMega   FireSize = "mega"   // 100,000+ acres
)

// FireSizeFromAcres classifies a fire by burned acreage.
func FireSizeFromAcres(acres float64) FireSize {
	switch {
	case acres < 100:
		return FireSmall
	case acres < 1000:
		return FireMedium
	case acres < 10000:
		return FireLarge
	case acres < 100000:
		return FireMajor
	default:
		return FireMega
	}
}

// Description returns the size class with its acreage band.
func (s FireSize) Description() string {
	switch s {
	case FireSmall:
		return "Small Fire (< 100 acres)"
	case FireMedium:
		return "Medium Fire (100-1,000 acres)"
	case FireLarge:
		return "Large Fire (1,000-10,000 acres)"
	case FireMajor:
		return "Major Fire (10,000-100,000 acres)"
	case FireMega:
		return "Megafire (100,000+ acres)"
	default:
		return "Unknown"
	}
}

var acrePrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAcres renders an acre count with comma grouping, e.g. "12,345 acres".
func FormatAcres(acres float64) string {
	return acrePrinter.Sprintf("%d acres", int64(math.Round(acres)))
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassDirection converts a bearing in degrees to its nearest 16-point
// compass name. Bearings outside [0, 360) wrap.
func CompassDirection(degrees float64) string {
	idx := int(math.Round(degrees/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}
