package labresult

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParameterNormalizer produces the canonical matching key for a parameter
// name. Keys from the same normalizer are comparable case-insensitively.
type ParameterNormalizer interface {
	Normalize(raw string) string
}

// UnitNormalizer produces the canonical display form of a unit string.
type UnitNormalizer interface {
	Normalize(raw string) string
}

var (
	parenPattern    = regexp.MustCompile(`\([^)]*\)`)
	spaceRunPattern = regexp.MustCompile(`\s+`)

	microReplacer = strings.NewReplacer("µ", "u", "μ", "u", "?", "u")
)

// DefaultParameterNormalizer lowercases, trims, drops parenthesized
// qualifiers, strips diacritics and folds micro-sign variants (including the
// '?' left behind by broken encodings) to ASCII u.
type DefaultParameterNormalizer struct{}

func (DefaultParameterNormalizer) Normalize(raw string) string {
	return cleanup(parenPattern.ReplaceAllString(strings.ToLower(raw), ""))
}

// cleanup is the shared string normalization used for both parameters and
// units: trim, strip diacritics, fold micro signs, collapse whitespace.
func cleanup(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripDiacritics(s)
	s = microReplacer.Replace(s)
	s = spaceRunPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// unitCanonical maps cleaned-up unit spellings to their canonical display
// form. Keys are post-cleanup, so micro signs appear as "u" and everything
// is lowercase. Unknown units fall through in cleaned form.
var unitCanonical = map[string]string{
	"g/l":      "g/L",
	"g\\l":     "g/L",
	"g/dl":     "g/dL",
	"g\\dl":    "g/dL",
	"mg/dl":    "mg/dL",
	"mg/l":     "mg/L",
	"mmol/l":   "mmol/L",
	"mmol\\l":  "mmol/L",
	"umol/l":   "µmol/L",
	"nmol/l":   "nmol/L",
	"pmol/l":   "pmol/L",
	"ug/ml":    "µg/mL",
	"ug/dl":    "µg/dL",
	"ug/l":     "µg/L",
	"ng/ml":    "ng/mL",
	"ng/l":     "ng/L",
	"pg/ml":    "pg/mL",
	"u/l":      "U/L",
	"iu/l":     "IU/L",
	"miu/l":    "mIU/L",
	"u/ml":     "U/mL",
	"ukat/l":   "µkat/L",
	"10e9/l":   "10^9/L",
	"10^9/l":   "10^9/L",
	"x10^9/l":  "10^9/L",
	"10e12/l":  "10^12/L",
	"10^12/l":  "10^12/L",
	"x10^12/l": "10^12/L",
	"fl":       "fL",
	"pg":       "pg",
	"mm/h":     "mm/h",
	"%":        "%",
	"ratio":    "ratio",
	"sec":      "s",
	"s":        "s",
}

// DefaultUnitNormalizer applies the shared string cleanup, then maps known
// spellings to a canonical form. Empty input stays empty.
type DefaultUnitNormalizer struct{}

func (DefaultUnitNormalizer) Normalize(raw string) string {
	cleaned := cleanup(raw)
	if cleaned == "" {
		return ""
	}
	if canon, ok := unitCanonical[cleaned]; ok {
		return canon
	}
	return cleaned
}
