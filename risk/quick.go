package risk

import "healthpulse/types"

// Quick bucket formulas used by the content priority analyzer. These are the
// coarse 0-1 scores the original manual-input flow shipped with; they are not
// derived from ScoreParameter and will not agree with it on every input.

// QuickDiabetesScore folds fasting glucose and HbA1c into a 0-1 score using
// fixed buckets, weighting glucose 0.6 and HbA1c 0.4. With neither value
// present it returns the neutral 0.5.
func QuickDiabetesScore(m types.LabMeasurement) float64 {
	var sum, weight float64

	if v := m.GlucoseFasting; v != nil && *v > 0 {
		sum += 0.6 * glucoseBucket(*v)
		weight += 0.6
	}
	if v := m.HbA1c; v != nil && *v > 0 {
		sum += 0.4 * hba1cBucket(*v)
		weight += 0.4
	}
	if weight == 0 {
		return 0.5
	}
	return sum / weight
}

// QuickCholesterolScore maps total cholesterol onto a 0-1 score via the
// 240/200/150 buckets. Without a total cholesterol value it returns the
// neutral 0.5.
func QuickCholesterolScore(m types.LabMeasurement) float64 {
	v := m.CholesterolTotal
	if v == nil || *v <= 0 {
		return 0.5
	}
	switch {
	case *v >= 240:
		return 0.9
	case *v >= 200:
		return 0.6
	case *v >= 150:
		return 0.3
	default:
		return 0.1
	}
}

func glucoseBucket(v float64) float64 {
	switch {
	case v >= 126:
		return 1.0
	case v >= 110:
		return 0.7
	case v >= 100:
		return 0.5
	default:
		return 0.2
	}
}

func hba1cBucket(v float64) float64 {
	switch {
	case v >= 6.5:
		return 1.0
	case v >= 5.7:
		return 0.6
	default:
		return 0.2
	}
}
