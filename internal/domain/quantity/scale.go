// Package quantity holds the pure text transformations behind recipe scaling,
// shopping quick-add parsing and category assignment.
package quantity

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// suffix is trailing text after a range or fraction, such as a unit ("1/2 TL", "2-3EL")
const suffix = `(\s.*|[^\d\s.,/-].*)?`

var (
	rangePattern    = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*-\s*(\d+(?:[.,]\d+)?)` + suffix + `$`)
	fractionPattern = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d+)` + suffix + `$`)
	leadingPattern  = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)(.*)$`)
)

// amount is a parsed ingredient quantity. high is set only for ranges.
type amount struct {
	value  float64
	high   *float64
	suffix string
}

// parseAmount reads the number at the start of q. A fraction with a zero
// denominator does not parse.
func parseAmount(q string) (amount, bool) {
	if m := rangePattern.FindStringSubmatch(q); m != nil {
		low, err := parseDecimal(m[1])
		if err != nil {
			return amount{}, false
		}
		high, err := parseDecimal(m[2])
		if err != nil {
			return amount{}, false
		}
		return amount{value: low, high: &high, suffix: m[3]}, true
	}

	if m := fractionPattern.FindStringSubmatch(q); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den == 0 {
			return amount{}, false
		}
		return amount{value: num / den, suffix: m[3]}, true
	}

	if m := leadingPattern.FindStringSubmatch(q); m != nil {
		v, err := parseDecimal(m[1])
		if err != nil {
			return amount{}, false
		}
		return amount{value: v, suffix: m[2]}, true
	}
	return amount{}, false
}

// snapTolerance is how close a value in (0,1) must be to a culinary fraction to be shown as one.
const snapTolerance = 0.01

var culinaryFractions = []struct {
	value float64
	text  string
}{
	{1.0 / 8, "1/8"},
	{1.0 / 4, "1/4"},
	{1.0 / 3, "1/3"},
	{1.0 / 2, "1/2"},
	{2.0 / 3, "2/3"},
	{3.0 / 4, "3/4"},
}

// Scale multiplies a free-text ingredient quantity by factor.
// Ranges ("2-3") scale both bounds and simple fractions and leading numbers scale their
// value, keeping any trailing unit text. Anything else ("etwas", "1 Prise") that does not start with a number comes back verbatim.
func Scale(original string, factor float64) string {
	if factor == 1 || original == "" {
		return original
	}

	a, ok := parseAmount(original)
	if !ok {
		return original
	}
	if a.high != nil {
		return Format(a.value*factor) + "-" + Format(*a.high*factor) + a.suffix
	}
	return Format(a.value*factor) + a.suffix
}

// Format renders a scaled amount: common fractions between 0 and 1 snap to their
// fraction text, otherwise two decimals below 1, one decimal below 10 and whole numbers above.
func Format(value float64) string {
	if value == 0 {
		return "0"
	}

	if value > 0 && value < 1 {
		for _, f := range culinaryFractions {
			if math.Abs(value-f.value) <= snapTolerance {
				return f.text
			}
		}
		return strconv.FormatFloat(value, 'f', 2, 64)
	}

	if value < 10 {
		s := strconv.FormatFloat(value, 'f', 1, 64)
		return strings.TrimSuffix(s, ".0")
	}

	return strconv.FormatFloat(math.Round(value), 'f', 0, 64)
}

// Amount extracts the numeric value of an ingredient quantity.
// A range yields its lower bound. ok is false for text without a leading number.
func Amount(q string) (float64, bool) {
	a, ok := parseAmount(q)
	return a.value, ok
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
