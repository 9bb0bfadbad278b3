package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

// scorerMandatory extends the planner's fixed costs with groceries and healthcare.
var scorerMandatory = map[string]struct{}{
	"rent":       {},
	"mortgage":   {},
	"utilities":  {},
	"insurance":  {},
	"taxes":      {},
	"groceries":  {},
	"healthcare": {},
}

// IsScorerMandatory reports whether the health scorer treats category as an essential.
func IsScorerMandatory(category string) bool {
	_, ok := scorerMandatory[strings.ToLower(category)]
	return ok
}

const (
	baseScore = 50

	insightKuber     = "Excellent financial discipline. Your spending reflects the wisdom of the ancients."
	insightShreshtha = "Strong financial health. You balance necessities with mindful discretionary spending."
	insightMadhyama  = "Moderate financial health. Consider reviewing discretionary categories for optimization."
	insightSadharana = "Room for improvement. Small, consistent changes can significantly impact your score."
	insightCintaniya = "Financial attention needed. Consider the wisdom: spend less than you earn."
	insightNoData    = "No spending data available for analysis."
	insightNoSpend   = "No spending recorded."
)

var (
	pct40 = decimal.NewFromInt(40)
	pct30 = decimal.NewFromInt(30)
)

// ScoreHealth computes the Lakshmi score for a breakdown. It never fails:
// empty or all-zero input scores 50 and is graded Unrated.
//
// Only one dominance penalty applies, taken from the first discretionary
// category (in breakdown order) above 30% of spending.
func ScoreHealth(b core.CategoryBreakdown) core.HealthScore {
	if b.Len() == 0 {
		return unrated(insightNoData)
	}
	total := b.Total()
	if total.IsZero() {
		return unrated(insightNoSpend)
	}

	mandatory := decimal.Zero
	for _, s := range b.Shares {
		if IsScorerMandatory(s.Category) {
			mandatory = mandatory.Add(s.Total)
		}
	}
	discretionary := total.Sub(mandatory)

	score := baseScore

	// floor(mandatory/total * 25), computed exactly
	q, _ := mandatory.Mul(decimal.NewFromInt(25)).QuoRem(total, 0)
	score += int(q.IntPart())

	switch n := b.Len(); {
	case n >= 5:
		score += 15
	case n >= 3:
		score += 10
	default:
		score += 5
	}

	for _, s := range b.Shares {
		if IsScorerMandatory(s.Category) {
			continue
		}
		if s.Percentage.GreaterThan(pct40) {
			score -= 15
			break
		}
		if s.Percentage.GreaterThan(pct30) {
			score -= 8
			break
		}
	}

	// discretionary/total < 0.3 and < 0.5, without division
	switch {
	case discretionary.Mul(decimal.NewFromInt(10)).LessThan(total.Mul(decimal.NewFromInt(3))):
		score += 10
	case discretionary.Mul(decimal.NewFromInt(2)).LessThan(total):
		score += 5
	}

	return Grade(min(100, max(0, score)))
}

// Grade maps a clamped score onto its band.
func Grade(score int) core.HealthScore {
	hs := core.HealthScore{Score: score}
	switch {
	case score >= 85:
		hs.Grade, hs.Context, hs.Insight = core.GradeKuber, core.ContextSavingsHigh, insightKuber
	case score >= 70:
		hs.Grade, hs.Context, hs.Insight = core.GradeShreshtha, core.ContextBalanced, insightShreshtha
	case score >= 55:
		hs.Grade, hs.Context, hs.Insight = core.GradeMadhyama, core.ContextGeneral, insightMadhyama
	case score >= 40:
		hs.Grade, hs.Context, hs.Insight = core.GradeSadharana, core.ContextSmallSavings, insightSadharana
	default:
		hs.Grade, hs.Context, hs.Insight = core.GradeCintaniya, core.ContextOverspending, insightCintaniya
	}
	return hs
}

func unrated(insight string) core.HealthScore {
	return core.HealthScore{
		Score:   baseScore,
		Grade:   core.GradeUnrated,
		Insight: insight,
		Context: core.ContextGeneral,
	}
}
