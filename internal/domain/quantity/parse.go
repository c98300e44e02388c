package quantity

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultUnit is used when quick-add text carries no recognised unit.
const DefaultUnit = "Stk."

// ParsedItem is the result of reading a quick-add line such as "500g Mehl".
type ParsedItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Longer tokens come first so "kg" is not read as "k" + "g" and "dosen" wins over "dose".
const unitAlternation = `kg|mg|g|ml|cl|l|stück|stk|bund|packung|pck|dosen|dose|flaschen|flasche|fl|zehen|zehe|el|tl`

var (
	quantityFirst = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(?:(` + unitAlternation + `)\.?)?\s+(.+)$`)
	nameFirst     = regexp.MustCompile(`(?i)^(.+?)\s+(\d+(?:\.\d+)?)\s*(?:(` + unitAlternation + `)\.?)?$`)
)

var canonicalUnits = map[string]string{
	"g":        "g",
	"kg":       "kg",
	"mg":       "mg",
	"l":        "l",
	"ml":       "ml",
	"cl":       "cl",
	"stk":      DefaultUnit,
	"stück":    DefaultUnit,
	"bund":     "Bund",
	"pck":      "Pck.",
	"packung":  "Pck.",
	"dose":     "Dose",
	"dosen":    "Dose",
	"fl":       "Flasche",
	"flasche":  "Flasche",
	"flaschen": "Flasche",
	"zehe":     "Zehe",
	"zehen":    "Zehe",
	"el":       "EL",
	"tl":       "TL",
}

// ParseShoppingItem reads free text like "500g Mehl", "2 kg Mehl" or "Mehl 2kg".
// It never fails: text it cannot read becomes a single piece named after the input.
func ParseShoppingItem(input string) ParsedItem {
	text := strings.TrimSpace(strings.ReplaceAll(input, ",", "."))

	if m := quantityFirst.FindStringSubmatch(text); m != nil {
		if item, ok := buildParsed(m[3], m[1], m[2]); ok {
			return item
		}
	}

	if m := nameFirst.FindStringSubmatch(text); m != nil {
		if item, ok := buildParsed(m[1], m[2], m[3]); ok {
			return item
		}
	}

	return ParsedItem{Name: strings.TrimSpace(input), Quantity: 1, Unit: DefaultUnit}
}

func buildParsed(name, qty, unit string) (ParsedItem, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ParsedItem{}, false
	}
	value, err := strconv.ParseFloat(qty, 64)
	if err != nil {
		return ParsedItem{}, false
	}
	return ParsedItem{Name: name, Quantity: value, Unit: CanonicalUnit(unit)}, true
}

// CanonicalUnit maps a recognised unit token to its display form. An empty token becomes
// DefaultUnit, an unknown one is kept as written.
func CanonicalUnit(token string) string {
	token = strings.TrimSuffix(strings.TrimSpace(token), ".")
	if token == "" {
		return DefaultUnit
	}
	if unit, ok := canonicalUnits[strings.ToLower(token)]; ok {
		return unit
	}
	return token
}

// NameKey is the case-insensitive natural key used to merge pantry and shopping rows.
func NameKey(name string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(name))
}
