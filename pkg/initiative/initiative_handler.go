package initiative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type InitiativeDTO struct {
	Id              int    `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status"`
	DisplayStatus   string `json:"displayStatus"`
	IsDefaultBucket bool   `json:"isDefaultBucket"`
	ProposedById    string `json:"proposedById,omitempty"`
	ApprovedById    string `json:"approvedById,omitempty"`
}

type InitiativeHandler struct {
	initiativeService InitiativeService
}

func NewInitiativeHandler(initiativeService InitiativeService) *InitiativeHandler {
	return &InitiativeHandler{initiativeService}
}

func (handler *InitiativeHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	initiatives, err := handler.initiativeService.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]InitiativeDTO, 0, len(initiatives))
	for _, initiative := range initiatives {
		dtos = append(dtos, InitiativeToDTO(initiative))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *InitiativeHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	pending, err := handler.initiativeService.ListPending(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]InitiativeDTO, 0, len(pending))
	for _, initiative := range pending {
		dtos = append(dtos, InitiativeToDTO(initiative))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *InitiativeHandler) Propose(w http.ResponseWriter, r *http.Request) {
	log.Debug("Proposing new initiative")
	w.Header().Set("Content-Type", "application/json")

	var dto InitiativeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.initiativeService.Propose(r.Context(), dto.Name, dto.Description)
	if err != nil {
		if errors.Is(err, ErrInvalidName) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(InitiativeToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// EnsureDefaultBucket creates the caller's organization default bucket if
// missing and returns it either way.
func (handler *InitiativeHandler) EnsureDefaultBucket(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bucket, err := handler.initiativeService.EnsureDefaultBucket(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(InitiativeToDTO(bucket)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *InitiativeHandler) Approve(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, handler.initiativeService.Approve)
}

func (handler *InitiativeHandler) Reject(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, handler.initiativeService.Reject)
}

func (handler *InitiativeHandler) Pause(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, handler.initiativeService.Pause)
}

func (handler *InitiativeHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id int) (Initiative, error),
) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := op(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInitiativeNotFound):
			http.Error(w, "Initiative not found", http.StatusNotFound)
		case errors.Is(err, ErrNotEligible):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(InitiativeToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func InitiativeToDTO(initiative Initiative) InitiativeDTO {
	return InitiativeDTO{
		Id:              initiative.Id,
		Name:            initiative.Name,
		Description:     initiative.Description,
		Status:          string(initiative.Status),
		DisplayStatus:   DisplayStatus(initiative.Status),
		IsDefaultBucket: initiative.IsDefaultBucket,
		ProposedById:    initiative.ProposedById,
		ApprovedById:    initiative.ApprovedById,
	}
}
