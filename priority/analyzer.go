// Package priority decides which health category a user's content feed
// should lean toward, based on their latest lab snapshot.
package priority

import (
	"fmt"
	"math"

	"healthpulse/config"
	"healthpulse/risk"
	"healthpulse/types"
)

// Analyze computes the content focus from the latest lab snapshot. A nil
// snapshot is not an error: new users get a balanced feed with neutral
// scores until they upload a result.
//
// The 0-1 scores come from the quick bucket formulas in the risk package,
// not from the detailed per-analyte interpolation that produced the
// snapshot's stored percentages. The two can disagree; see risk package doc.
func Analyze(latest *types.LabResult) types.HealthPriority {
	if latest == nil {
		return types.HealthPriority{
			Focus:            types.FocusBalanced,
			DiabetesScore:    0.5,
			CholesterolScore: 0.5,
			Reason:           "Belum ada data laboratorium, menampilkan konten seimbang.",
		}
	}

	m := latest.Measurement()
	dia := risk.QuickDiabetesScore(m)
	chol := risk.QuickCholesterolScore(m)

	p := types.HealthPriority{
		DiabetesScore:    dia,
		CholesterolScore: chol,
	}

	if math.Abs(dia-chol) < config.BalancedMargin {
		p.Focus = types.FocusBalanced
		p.Reason = fmt.Sprintf(
			"Risiko diabetes (%.0f%%) dan kolesterol (%.0f%%) seimbang.",
			dia*100, chol*100)
		return p
	}

	if dia > chol {
		p.Focus = types.FocusDiabetes
		p.Reason = fmt.Sprintf(
			"Risiko diabetes (%.0f%%) lebih tinggi dari risiko kolesterol (%.0f%%).",
			dia*100, chol*100)
	} else {
		p.Focus = types.FocusCholesterol
		p.Reason = fmt.Sprintf(
			"Risiko kolesterol (%.0f%%) lebih tinggi dari risiko diabetes (%.0f%%).",
			chol*100, dia*100)
	}
	return p
}
