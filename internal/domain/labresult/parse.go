package labresult

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// A result is a bare number, optionally preceded by a comparator.
	// Anything else (text findings like "negativ") stays non-numeric.
	resultPattern = regexp.MustCompile(`^\s*(<=|>=|<|>)?\s*(\d+(?:[.,]\d+)?)\s*$`)

	comparatorPrefixPattern = regexp.MustCompile(`^\s*(<=|>=|<|>)`)

	// Ranges accept hyphen, en dash and em dash as separators.
	rangePattern  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*[-\x{2013}\x{2014}]\s*(\d+(?:[.,]\d+)?)`)
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// parseDecimal accepts both decimal comma and decimal dot.
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// ParseResult extracts the comparator and numeric value from a raw result
// string. Both are nil when the string is not "optional comparator + number";
// a comparator is never returned without a value.
func ParseResult(raw string) (*Comparator, *float64) {
	m := resultPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, nil
	}
	v, err := parseDecimal(m[2])
	if err != nil {
		return nil, nil
	}
	var cmp *Comparator
	if m[1] != "" {
		c := Comparator(m[1])
		cmp = &c
	}
	return cmp, &v
}

// ParseReference extracts a comparator and lower/upper bounds from a raw
// reference string. The steps run in order and the first that yields bounds
// wins:
//
//  1. strip a leading comparator token, remembering it
//  2. match "number - number" in the remainder as lower/upper
//  3. match a single number in the remainder
//  4. match a single number anywhere in the original string
//
// A single number goes to the upper bound when a less-than signal is present
// (the stripped comparator, or a literal '<'/'≤' still in the text), to
// the lower bound when a greater-than comparator was stripped, and to the
// lower bound by default when there is no signal either way.
func ParseReference(raw string) (cmp *Comparator, from, to *float64) {
	rest := raw
	if m := comparatorPrefixPattern.FindStringSubmatch(raw); m != nil {
		c := Comparator(m[1])
		cmp = &c
		rest = raw[len(m[0]):]
	}

	if m := rangePattern.FindStringSubmatch(rest); m != nil {
		lo, errLo := parseDecimal(m[1])
		hi, errHi := parseDecimal(m[2])
		if errLo == nil && errHi == nil {
			return cmp, &lo, &hi
		}
	}

	if m := numberPattern.FindString(rest); m != "" {
		if v, err := parseDecimal(m); err == nil {
			from, to = assignSingleBound(cmp, rest, v)
			return cmp, from, to
		}
	}

	// Last resort: the comparator strip may have eaten into a malformed
	// string, so scan the original text too.
	if m := numberPattern.FindString(raw); m != "" {
		if v, err := parseDecimal(m); err == nil {
			from, to = assignSingleBound(cmp, raw, v)
			return cmp, from, to
		}
	}

	return cmp, nil, nil
}

func assignSingleBound(cmp *Comparator, text string, v float64) (from, to *float64) {
	switch {
	case cmp != nil && cmp.LessFamily():
		return nil, &v
	case cmp != nil && cmp.GreaterFamily():
		return &v, nil
	case strings.ContainsAny(text, "<≤"):
		return nil, &v
	default:
		// Ambiguous bare number: treat as a lower bound.
		return &v, nil
	}
}
