package timeentry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aiburn/aiburn/pkg/initiative"
	log "github.com/sirupsen/logrus"
)

type TimeEntryDTO struct {
	Id           int       `json:"id"`
	InitiativeId int       `json:"initiativeId"`
	PersonDays   float64   `json:"personDays"`
	WeekOf       time.Time `json:"weekOf"`
	Note         string    `json:"note,omitempty"`
}

type EnrichedTimeEntryDTO struct {
	TimeEntryDTO
	InitiativeName string `json:"initiativeName"`
}

type TimeEntryHandler struct {
	timeEntryService TimeEntryService
}

func NewTimeEntryHandler(timeEntryService TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntryService}
}

func (handler *TimeEntryHandler) LogTime(w http.ResponseWriter, r *http.Request) {
	log.Debug("Logging time entry")
	w.Header().Set("Content-Type", "application/json")

	var dto TimeEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := handler.timeEntryService.LogTime(r.Context(), dto.InitiativeId, dto.PersonDays, dto.WeekOf, dto.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPersonDays):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, initiative.ErrInitiativeNotFound):
			http.Error(w, "Initiative not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(EntryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *TimeEntryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	weeksBack := 4
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid weeks parameter", http.StatusBadRequest)
			return
		}
		weeksBack = parsed
	}

	entries, err := handler.timeEntryService.RecentForUser(r.Context(), weeksBack)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EnrichedTimeEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, EnrichedTimeEntryDTO{
			TimeEntryDTO:   EntryToDTO(entry.TimeEntry),
			InitiativeName: entry.InitiativeName,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func EntryToDTO(entry TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		Id:           entry.Id,
		InitiativeId: entry.InitiativeId,
		PersonDays:   entry.PersonDays,
		WeekOf:       entry.WeekOf,
		Note:         entry.Note,
	}
}
