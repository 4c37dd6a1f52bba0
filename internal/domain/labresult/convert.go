package labresult

// UnitConverter performs best-effort conversion between compatible canonical
// units. Conversion never fails a pipeline: callers keep the original value
// when it reports false.
type UnitConverter interface {
	TryConvert(value float64, fromUnit, toUnit string) (float64, bool)
	TryConvertRange(from, to *float64, fromUnit, toUnit string) (*float64, *float64, bool)
}

type conversionKey struct {
	from string
	to   string
}

// Fixed factors between canonical unit pairs. Only dimensionally safe pairs
// are listed; analyte-specific molar conversions are deliberately absent.
var conversionFactors = map[conversionKey]float64{
	{"g/L", "g/dL"}:               0.1,
	{"g/dL", "g/L"}:               10,
	{"mg/L", "mg/dL"}:             0.1,
	{"mg/dL", "mg/L"}:             10,
	{"mg/L", "µg/mL"}:        1,
	{"µg/mL", "mg/L"}:        1,
	{"µg/L", "ng/mL"}:        1,
	{"ng/mL", "µg/L"}:        1,
	{"ng/L", "pg/mL"}:             1,
	{"pg/mL", "ng/L"}:             1,
	{"U/L", "IU/L"}:               1,
	{"IU/L", "U/L"}:               1,
	{"µkat/L", "U/L"}:        60,
	{"U/L", "µkat/L"}:        1.0 / 60.0,
}

// DefaultUnitConverter converts via the fixed factor table. Identical units
// convert trivially.
type DefaultUnitConverter struct{}

func (DefaultUnitConverter) TryConvert(value float64, fromUnit, toUnit string) (float64, bool) {
	if fromUnit == toUnit {
		return value, true
	}
	f, ok := conversionFactors[conversionKey{from: fromUnit, to: toUnit}]
	if !ok {
		return 0, false
	}
	return value * f, true
}

func (c DefaultUnitConverter) TryConvertRange(from, to *float64, fromUnit, toUnit string) (*float64, *float64, bool) {
	var outFrom, outTo *float64
	ok := false
	if from != nil {
		if v, converted := c.TryConvert(*from, fromUnit, toUnit); converted {
			outFrom = &v
			ok = true
		}
	}
	if to != nil {
		if v, converted := c.TryConvert(*to, fromUnit, toUnit); converted {
			outTo = &v
			ok = true
		}
	}
	return outFrom, outTo, ok
}
