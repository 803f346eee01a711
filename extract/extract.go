// Package extract pulls recognized lab values out of raw OCR text.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"healthpulse/types"
)

// number matches an integer or decimal value; lab reports from Indonesian
// labs use a comma as the decimal separator, so both are accepted.
const number = `([0-9]{1,4}(?:[.,][0-9]+)?)`

// sep sits between a label and its value: colons, equals, dashes, spaces.
const sep = `[\s:=\-]*`

// labelPatterns lists the recognized label phrasings per analyte, most
// specific first. The first pattern that matches wins; remaining patterns
// for that analyte are skipped. Analytes are processed in slice order and
// each match is blanked out of the text, so the LDL and HDL entries must
// come before the bare kolesterol/cholesterol labels: in phrasings like
// "LDL Cholesterol 95" the value follows the word cholesterol directly,
// and a report listing only fractions must not yield a total.
var labelPatterns = []struct {
	assign func(*types.LabMeasurement, float64)
	labels []string
}{
	{
		assign: func(m *types.LabMeasurement, v float64) { m.GlucoseFasting = &v },
		labels: []string{
			`glukosa\s+(?:darah\s+)?puasa`,
			`gula\s+darah\s+puasa`,
			`fasting\s+(?:blood\s+)?glucose`,
			`fasting\s+plasma\s+glucose`,
			`\bgdp\b`,
		},
	},
	{
		assign: func(m *types.LabMeasurement, v float64) { m.HbA1c = &v },
		labels: []string{
			`hb\s*a1c`,
			`hemoglobin\s+a1c`,
			`\ba1c\b`,
		},
	},
	{
		assign: func(m *types.LabMeasurement, v float64) { m.LDL = &v },
		labels: []string{
			`(?:kolesterol|cholesterol)\s+ldl`,
			`ldl\s+(?:kolesterol|cholesterol)`,
			`\bldl\b`,
		},
	},
	{
		assign: func(m *types.LabMeasurement, v float64) { m.HDL = &v },
		labels: []string{
			`(?:kolesterol|cholesterol)\s+hdl`,
			`hdl\s+(?:kolesterol|cholesterol)`,
			`\bhdl\b`,
		},
	},
	{
		assign: func(m *types.LabMeasurement, v float64) { m.Triglycerides = &v },
		labels: []string{
			`trigliserida`,
			`triglycerides?`,
			`\btg\b`,
		},
	},
	{
		assign: func(m *types.LabMeasurement, v float64) { m.CholesterolTotal = &v },
		labels: []string{
			`kolesterol\s+total`,
			`total\s+kolesterol`,
			`total\s+cholesterol`,
			`cholesterol\s+total`,
			`\bkolesterol\b`,
			`\bcholesterol\b`,
		},
	},
}

var compiled = compilePatterns()

func compilePatterns() [][]*regexp.Regexp {
	out := make([][]*regexp.Regexp, len(labelPatterns))
	for i, ap := range labelPatterns {
		out[i] = make([]*regexp.Regexp, len(ap.labels))
		for j, label := range ap.labels {
			out[i][j] = regexp.MustCompile(label + sep + number)
		}
	}
	return out
}

// Measurement scans OCR text for known analyte labels and returns whatever
// values it could recognize. Fields with no matching label stay nil. It
// never fails: garbage in, empty measurement out.
func Measurement(ocrText string) types.LabMeasurement {
	text := normalize(ocrText)

	var m types.LabMeasurement
	for i, patterns := range compiled {
		for _, re := range patterns {
			loc := re.FindStringSubmatchIndex(text)
			if loc == nil {
				continue
			}
			if v, ok := parseValue(text[loc[2]:loc[3]]); ok {
				labelPatterns[i].assign(&m, v)
			}
			// blank the matched span so later, broader labels cannot
			// re-read this value as their own
			text = text[:loc[0]] + strings.Repeat(" ", loc[1]-loc[0]) + text[loc[1]:]
			break
		}
	}
	return m
}

// normalize lowercases and collapses all whitespace runs to single spaces so
// patterns do not have to care about OCR line breaks.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func parseValue(raw string) (float64, bool) {
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
