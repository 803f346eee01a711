package risk

// Analyte identifies a single measured lab quantity.
type Analyte string

const (
	AnalyteGlucoseFasting   Analyte = "glucose_fasting"
	AnalyteHbA1c            Analyte = "hba1c"
	AnalyteCholesterolTotal Analyte = "cholesterol_total"
	AnalyteLDL              Analyte = "ldl"
	AnalyteHDL              Analyte = "hdl"
	AnalyteTriglycerides    Analyte = "triglycerides"
)

// threshold holds the low-risk and high-risk cutoffs for one analyte.
// Inverted analytes (HDL) score higher as the value falls.
type threshold struct {
	Low      float64
	High     float64
	Inverted bool
}

// thresholds is the authoritative cutoff table. Units are mg/dL except
// HbA1c, which is a percentage.
var thresholds = map[Analyte]threshold{
	AnalyteGlucoseFasting:   {Low: 100, High: 126},
	AnalyteHbA1c:            {Low: 5.7, High: 6.5},
	AnalyteCholesterolTotal: {Low: 200, High: 240},
	AnalyteLDL:              {Low: 100, High: 160},
	AnalyteHDL:              {Low: 40, High: 60, Inverted: true},
	AnalyteTriglycerides:    {Low: 150, High: 200},
}

// DiabetesAnalytes are the analytes that feed the diabetes category score.
var DiabetesAnalytes = []Analyte{AnalyteGlucoseFasting, AnalyteHbA1c}

// CholesterolAnalytes are the analytes that feed the cholesterol category score.
var CholesterolAnalytes = []Analyte{
	AnalyteCholesterolTotal, AnalyteLDL, AnalyteHDL, AnalyteTriglycerides,
}
