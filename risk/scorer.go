// Package risk maps lab values to 0-100 risk contributions and aggregates
// them into per-category and overall percentages with qualitative levels.
//
// Two formula families live here on purpose. The detailed per-analyte
// interpolation (ScoreParameter/Aggregate*) drives the persisted lab
// snapshot; the coarser bucket formulas in quick.go drive the content
// priority decision. They can disagree on the same inputs; callers pick the
// entry point explicitly instead of duplicating thresholds.
package risk

import (
	"math"

	"healthpulse/types"
)

// ScoreParameter maps a single analyte value to a 0-100 risk contribution.
// The score is 0 below the low threshold, rises linearly to 50 at the high
// threshold, continues on the same slope beyond it, and caps at 100. HDL is
// inverted: risk grows as the value falls below 60, then below 40.
//
// ok is false when the value is excluded from aggregation. A value of
// exactly 0 means "not measured" here, not a measured zero; none of these
// analytes can plausibly read zero in a living patient.
func ScoreParameter(value float64, kind Analyte) (score float64, ok bool) {
	th, known := thresholds[kind]
	if !known || value <= 0 {
		return 0, false
	}

	var distance float64
	if th.Inverted {
		distance = th.High - value
	} else {
		distance = value - th.Low
	}
	if distance <= 0 {
		return 0, true
	}

	span := th.High - th.Low
	score = distance / span * 50
	if score > 100 {
		score = 100
	}
	return score, true
}

// AggregateCategory averages the included per-parameter scores into one
// category result. An empty input aggregates to 0 / rendah.
func AggregateCategory(scores []float64) types.RiskCategoryResult {
	if len(scores) == 0 {
		return types.RiskCategoryResult{
			Percentage:  0,
			Level:       types.RiskRendah,
			Description: describe(types.RiskRendah),
		}
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	pct := int(math.Round(sum / float64(len(scores))))
	level := DisplayLevel(pct)
	return types.RiskCategoryResult{
		Percentage:  pct,
		Level:       level,
		Description: describe(level),
	}
}

// MeasurementScores returns the included scores of the given analytes for a
// measurement. Absent (nil) fields are skipped, as are zero values.
func MeasurementScores(m types.LabMeasurement, analytes []Analyte) []float64 {
	var out []float64
	for _, a := range analytes {
		v := analyteValue(m, a)
		if v == nil {
			continue
		}
		if s, ok := ScoreParameter(*v, a); ok {
			out = append(out, s)
		}
	}
	return out
}

// ScoreDiabetes aggregates the diabetes category for a measurement.
func ScoreDiabetes(m types.LabMeasurement) types.RiskCategoryResult {
	return AggregateCategory(MeasurementScores(m, DiabetesAnalytes))
}

// ScoreCholesterol aggregates the cholesterol category for a measurement.
func ScoreCholesterol(m types.LabMeasurement) types.RiskCategoryResult {
	return AggregateCategory(MeasurementScores(m, CholesterolAnalytes))
}

// ScoreOverall aggregates over the union of diabetes and cholesterol
// parameter scores.
func ScoreOverall(m types.LabMeasurement) types.RiskCategoryResult {
	scores := MeasurementScores(m, DiabetesAnalytes)
	scores = append(scores, MeasurementScores(m, CholesterolAnalytes)...)
	return AggregateCategory(scores)
}

// DisplayLevel buckets a percentage on the four-level display scale.
func DisplayLevel(pct int) types.RiskLevel {
	switch {
	case pct < 25:
		return types.RiskRendah
	case pct < 50:
		return types.RiskSedang
	case pct < 75:
		return types.RiskTinggi
	default:
		return types.RiskSangatTinggi
	}
}

// PersistedLevel buckets a percentage on the three-level scale stored on a
// lab snapshot. It collapses tinggi and sangat tinggi into tinggi; the
// display scale keeps them apart. Both scales are kept as documented
// behavior of the existing data.
func PersistedLevel(pct int) types.RiskLevel {
	switch {
	case pct < 25:
		return types.RiskRendah
	case pct < 50:
		return types.RiskSedang
	default:
		return types.RiskTinggi
	}
}

func analyteValue(m types.LabMeasurement, a Analyte) *float64 {
	switch a {
	case AnalyteGlucoseFasting:
		return m.GlucoseFasting
	case AnalyteHbA1c:
		return m.HbA1c
	case AnalyteCholesterolTotal:
		return m.CholesterolTotal
	case AnalyteLDL:
		return m.LDL
	case AnalyteHDL:
		return m.HDL
	case AnalyteTriglycerides:
		return m.Triglycerides
	}
	return nil
}

func describe(level types.RiskLevel) string {
	switch level {
	case types.RiskRendah:
		return "Risiko rendah, pertahankan pola hidup sehat."
	case types.RiskSedang:
		return "Risiko sedang, perhatikan pola makan dan aktivitas fisik."
	case types.RiskTinggi:
		return "Risiko tinggi, disarankan konsultasi dengan dokter."
	default:
		return "Risiko sangat tinggi, segera konsultasikan dengan dokter."
	}
}
