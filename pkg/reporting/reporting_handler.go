package reporting

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aiburn/aiburn/pkg/initiative"
	log "github.com/sirupsen/logrus"
)

type BudgetSummaryDTO struct {
	TotalPersonDays        float64    `json:"totalPersonDays"`
	ConsumedPersonDays     float64    `json:"consumedPersonDays"`
	RemainingPersonDays    float64    `json:"remainingPersonDays"`
	BurnRate               float64    `json:"burnRate"`
	ForecastExhaustionDate *time.Time `json:"forecastExhaustionDate"`
}

type InitiativeBurnDTO struct {
	InitiativeId       int     `json:"initiativeId"`
	InitiativeName     string  `json:"initiativeName"`
	PersonDaysConsumed float64 `json:"personDaysConsumed"`
	IsDefaultBucket    bool    `json:"isDefaultBucket"`
}

type WeeklyTrendPointDTO struct {
	WeekOf                time.Time `json:"weekOf"`
	ExplorationPersonDays float64   `json:"explorationPersonDays"`
	StructuredPersonDays  float64   `json:"structuredPersonDays"`
	TotalPersonDays       float64   `json:"totalPersonDays"`
}

type SignalDTO struct {
	Type         string `json:"type"`
	InitiativeId int    `json:"initiativeId,omitempty"`
	Message      string `json:"message"`
}

type OverviewDTO struct {
	BudgetSummary    *BudgetSummaryDTO          `json:"budgetSummary"`
	BurnByInitiative []InitiativeBurnDTO        `json:"burnByInitiative"`
	WeeklyTrend      []WeeklyTrendPointDTO      `json:"weeklyTrend"`
	Signals          []SignalDTO                `json:"signals"`
	Initiatives      []initiative.InitiativeDTO `json:"initiatives"`
}

type ReportingHandler struct {
	reportingService ReportingService
}

func NewReportingHandler(reportingService ReportingService) *ReportingHandler {
	return &ReportingHandler{reportingService}
}

func (handler *ReportingHandler) Overview(w http.ResponseWriter, r *http.Request) {
	log.Debug("Building reporting overview")
	w.Header().Set("Content-Type", "application/json")

	overview, err := handler.reportingService.GetOverview(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(OverviewToDTO(overview)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func OverviewToDTO(overview Overview) OverviewDTO {
	dto := OverviewDTO{
		BurnByInitiative: make([]InitiativeBurnDTO, 0, len(overview.BurnByInitiative)),
		WeeklyTrend:      make([]WeeklyTrendPointDTO, 0, len(overview.WeeklyTrend)),
		Signals:          make([]SignalDTO, 0, len(overview.Signals)),
		Initiatives:      make([]initiative.InitiativeDTO, 0, len(overview.Initiatives)),
	}
	if overview.BudgetSummary != nil {
		dto.BudgetSummary = &BudgetSummaryDTO{
			TotalPersonDays:        overview.BudgetSummary.TotalPersonDays,
			ConsumedPersonDays:     overview.BudgetSummary.ConsumedPersonDays,
			RemainingPersonDays:    overview.BudgetSummary.RemainingPersonDays,
			BurnRate:               overview.BudgetSummary.BurnRate,
			ForecastExhaustionDate: overview.BudgetSummary.ForecastExhaustionDate,
		}
	}
	for _, burn := range overview.BurnByInitiative {
		dto.BurnByInitiative = append(dto.BurnByInitiative, InitiativeBurnDTO(burn))
	}
	for _, point := range overview.WeeklyTrend {
		dto.WeeklyTrend = append(dto.WeeklyTrend, WeeklyTrendPointDTO(point))
	}
	for _, signal := range overview.Signals {
		dto.Signals = append(dto.Signals, SignalDTO{
			Type:         string(signal.Type),
			InitiativeId: signal.InitiativeId,
			Message:      signal.Message,
		})
	}
	for _, i := range overview.Initiatives {
		dto.Initiatives = append(dto.Initiatives, initiative.InitiativeToDTO(i))
	}
	return dto
}
