package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type BudgetPeriodDTO struct {
	Id              int       `json:"id"`
	TotalPersonDays float64   `json:"totalPersonDays"`
	PeriodStart     time.Time `json:"periodStart"`
	PeriodEnd       time.Time `json:"periodEnd"`
}

type BudgetHandler struct {
	budgetService BudgetService
}

func NewBudgetHandler(budgetService BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService}
}

func (handler *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new budget period")
	w.Header().Set("Content-Type", "application/json")

	var dto BudgetPeriodDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.budgetService.Create(r.Context(), dto.TotalPersonDays, dto.PeriodStart, dto.PeriodEnd)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, ErrInvalidPeriod):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(PeriodToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *BudgetHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	period, err := handler.budgetService.GetActive(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if period == nil {
		// No active budget is not an error: return an explicit null.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null"))
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(PeriodToDTO(*period)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *BudgetHandler) History(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	periods, err := handler.budgetService.History(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]BudgetPeriodDTO, 0, len(periods))
	for _, period := range periods {
		dtos = append(dtos, PeriodToDTO(period))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func PeriodToDTO(period BudgetPeriod) BudgetPeriodDTO {
	return BudgetPeriodDTO{
		Id:              period.Id,
		TotalPersonDays: period.TotalPersonDays,
		PeriodStart:     period.PeriodStart,
		PeriodEnd:       period.PeriodEnd,
	}
}
