package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"artha/internal/core"
	"artha/internal/log"
	"artha/internal/services"
)

type categoryStat struct {
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

type monthlyDTO struct {
	MonthName string  `json:"month_name"`
	Total     float64 `json:"total"`
}

type savingsRequestDTO struct {
	Target    *decimal.Decimal `json:"target"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Period    string           `json:"period"`
}

type savingsAdviceDTO struct {
	Category      string  `json:"category"`
	SavePerPeriod float64 `json:"save_per_period"`
	Period        string  `json:"period"`
	NumPeriods    int     `json:"num_periods"`
}

type rankedCategoryDTO struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Mandatory  bool    `json:"mandatory"`
}

type insightsDTO struct {
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Score       int                 `json:"score"`
	Grade       string              `json:"grade"`
	Insight     string              `json:"insight"`
	Context     string              `json:"context"`
	Wisdom      core.Wisdom         `json:"wisdom"`
	Categories  []rankedCategoryDTO `json:"categories"`
	Monthly     []monthlyDTO        `json:"monthly"`
	DailyWisdom core.Wisdom         `json:"daily_wisdom"`
}

func toMonthlyDTOs(rows []core.MonthlyTotal) []monthlyDTO {
	out := make([]monthlyDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, monthlyDTO{MonthName: m.MonthLabel, Total: money(m.Total)})
	}
	return out
}

func toInsightsDTO(in services.Insights) insightsDTO {
	cats := make([]rankedCategoryDTO, 0, len(in.Categories))
	for _, c := range in.Categories {
		cats = append(cats, rankedCategoryDTO{
			Category:   c.Category,
			Total:      money(c.Total),
			Percentage: money(c.Percentage),
			Mandatory:  c.Mandatory,
		})
	}
	return insightsDTO{
		StartDate:   in.StartDate.String(),
		EndDate:     in.EndDate.String(),
		Score:       in.Score.Score,
		Grade:       string(in.Score.Grade),
		Insight:     in.Score.Insight,
		Context:     string(in.Score.Context),
		Wisdom:      in.Wisdom,
		Categories:  cats,
		Monthly:     toMonthlyDTOs(in.Monthly),
		DailyWisdom: in.DailyWisdom,
	}
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		writeError(w, r, log.OpBreakdown, err)
		return
	}
	start, end, err := req.parse()
	if err != nil {
		writeError(w, r, log.OpBreakdown, err)
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	b, err := s.analytics.GetBreakdown(ctx, start, end)
	if err != nil {
		writeError(w, r, log.OpBreakdown, err)
		return
	}

	out := make(map[string]categoryStat, b.Len())
	for _, sh := range b.Shares {
		out[sh.Category] = categoryStat{Total: money(sh.Total), Percentage: money(sh.Percentage)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.storeContext(r)
	defer cancel()

	rows, err := s.analytics.GetMonthlyBreakdown(ctx)
	if err != nil {
		writeError(w, r, log.OpMonthly, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlyDTOs(rows))
}

func (s *Server) handleSavingsPlan(w http.ResponseWriter, r *http.Request) {
	var body savingsRequestDTO
	if err := decodeJSON(w, r, s.maxBodyBytes, &body); err != nil {
		writeError(w, r, log.OpPlanSavings, err)
		return
	}
	if body.Target == nil {
		writeError(w, r, log.OpPlanSavings, core.ErrInvalidTarget)
		return
	}
	start, end, err := dateRangeRequest{StartDate: body.StartDate, EndDate: body.EndDate}.parse()
	if err != nil {
		writeError(w, r, log.OpPlanSavings, err)
		return
	}
	period, err := core.ParsePeriod(body.Period)
	if err != nil {
		writeError(w, r, log.OpPlanSavings, err)
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	advice, err := s.analytics.PlanSavings(ctx, core.SavingsRequest{
		Target:    *body.Target,
		StartDate: start,
		EndDate:   end,
		Period:    period,
	})
	if err != nil {
		writeError(w, r, log.OpPlanSavings, err)
		return
	}

	writeJSON(w, http.StatusOK, savingsAdviceDTO{
		Category:      advice.Category,
		SavePerPeriod: money(advice.SavePerPeriod),
		Period:        string(advice.Period),
		NumPeriods:    advice.NumPeriods,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		writeError(w, r, log.OpScore, err)
		return
	}
	start, end, err := req.parse()
	if err != nil {
		writeError(w, r, log.OpScore, err)
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	in, err := s.analytics.Insights(ctx, start, end)
	if err != nil {
		writeError(w, r, log.OpScore, err)
		return
	}
	writeJSON(w, http.StatusOK, toInsightsDTO(in))
}

// handleWisdom returns one quotation for ?context=, defaulting to general.
// Unknown contexts fall back to the general quotations.
func (s *Server) handleWisdom(w http.ResponseWriter, r *http.Request) {
	c := core.WisdomContext(strings.ToLower(sanitizeInput(r.URL.Query().Get("context"))))
	if c == "" {
		c = core.ContextGeneral
	}
	writeJSON(w, http.StatusOK, s.analytics.Wisdom(c))
}
