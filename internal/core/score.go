package core

// Grade is the label attached to a health score band.
type Grade string

const (
	GradeKuber     Grade = "Kuber"
	GradeShreshtha Grade = "Śreṣṭha"
	GradeMadhyama  Grade = "Madhyama"
	GradeSadharana Grade = "Sādhāraṇa"
	GradeCintaniya Grade = "Cintanīya"
	GradeUnrated   Grade = "Unrated"
)

// WisdomContext tags which quotations suit a given score band.
type WisdomContext string

const (
	ContextSavingsHigh  WisdomContext = "savings_high"
	ContextGeneral      WisdomContext = "general"
	ContextSmallSavings WisdomContext = "small_savings"
	ContextOverspending WisdomContext = "overspending"
	ContextBalanced     WisdomContext = "balanced"
	ContextCharitable   WisdomContext = "charitable"
)

// Contexts lists every known wisdom context.
var Contexts = []WisdomContext{
	ContextSavingsHigh, ContextGeneral, ContextSmallSavings,
	ContextOverspending, ContextBalanced, ContextCharitable,
}

// HealthScore is the Lakshmi score: a bounded 0..100 summary of spending discipline.
type HealthScore struct {
	Score   int
	Grade   Grade
	Insight string
	Context WisdomContext
}

// Wisdom is a pre-authored quotation shown alongside a score.
type Wisdom struct {
	Sanskrit        string        `json:"sanskrit"`
	Transliteration string        `json:"transliteration"`
	Translation     string        `json:"translation"`
	Source          string        `json:"source"`
	Context         WisdomContext `json:"context"`
}
