package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository"
)

type BlocksHandler struct {
	blockRepo repository.BlockRepo
}

func NewBlocksHandler(br repository.BlockRepo) *BlocksHandler {
	return &BlocksHandler{blockRepo: br}
}

type blockRequest struct {
	CompanyID string `json:"company_id"`
	SeekerID  string `json:"seeker_id"`
	Reason    string `json:"reason"`
}

func (h *BlocksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.CompanyID == "" || req.SeekerID == "" {
		http.Error(w, "company_id and seeker_id are required", http.StatusBadRequest)
		return
	}

	b := &models.BlockEntry{
		CompanyID: req.CompanyID,
		SeekerID:  req.SeekerID,
		Reason:    req.Reason,
		BlockedBy: accountID(r),
		BlockedAt: time.Now().UTC().UnixMilli(),
		IsActive:  true,
	}
	id, err := h.blockRepo.CreateBlock(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}
	b.ID = id
	writeJSON(w, b, http.StatusCreated)
}

func (h *BlocksHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.CompanyID == "" || req.SeekerID == "" {
		http.Error(w, "company_id and seeker_id are required", http.StatusBadRequest)
		return
	}
	if err := h.blockRepo.DeactivateBlock(r.Context(), req.CompanyID, req.SeekerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BlocksHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		http.Error(w, "company_id is required", http.StatusBadRequest)
		return
	}
	blocks, err := h.blockRepo.ListBlocksByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if blocks == nil {
		blocks = []models.BlockEntry{}
	}
	writeJSON(w, map[string]any{"items": blocks}, http.StatusOK)
}
