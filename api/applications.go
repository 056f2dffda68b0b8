package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/workflow"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/gorilla/mux"
)

type ApplicationsHandler struct {
	engine    *workflow.Engine
	validator *SchemaValidator
}

func NewApplicationsHandler(engine *workflow.Engine, validator *SchemaValidator) *ApplicationsHandler {
	return &ApplicationsHandler{engine: engine, validator: validator}
}

type createApplicationRequest struct {
	JobID     string `json:"job_id"`
	SeekerID  string `json:"seeker_id"`
	CompanyID string `json:"company_id"`
	JobType   string `json:"job_type"`
	Source    string `json:"source"` // applied (default) or invited
}

func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validator.Validate(r.Context(), "create_application", body); err != nil {
		writeError(w, err)
		return
	}
	var req createApplicationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	app, err := h.engine.Create(r.Context(), workflow.CreateParams{
		JobID:     req.JobID,
		SeekerID:  req.SeekerID,
		CompanyID: req.CompanyID,
		JobType:   models.JobType(req.JobType),
		Source:    models.ApplicationSource(req.Source),
		ActorID:   accountID(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusCreated)
}

func (h *ApplicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.engine.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagination(q.Get("limit"), q.Get("offset"))

	var (
		apps []models.Application
		err  error
	)
	switch {
	case q.Get("seeker_id") != "":
		apps, err = h.engine.ListBySeeker(r.Context(), q.Get("seeker_id"), limit, offset)
	case q.Get("company_id") != "":
		apps, err = h.engine.ListByCompany(r.Context(), q.Get("company_id"), limit, offset)
	default:
		http.Error(w, "seeker_id or company_id is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, map[string]any{"limit": limit, "offset": offset, "items": apps}, http.StatusOK)
}

func (h *ApplicationsHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	app, err := h.engine.AcceptInvite(r.Context(), mux.Vars(r)["id"], accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

func (h *ApplicationsHandler) Shortlist(w http.ResponseWriter, r *http.Request) {
	app, err := h.engine.Shortlist(r.Context(), mux.Vars(r)["id"], accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

func (h *ApplicationsHandler) Hire(w http.ResponseWriter, r *http.Request) {
	app, err := h.engine.HireNow(r.Context(), mux.Vars(r)["id"], accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

type respondRequest struct {
	Response string `json:"response"`
}

func (h *ApplicationsHandler) RespondToHire(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	app, err := h.engine.RespondToHire(r.Context(), mux.Vars(r)["id"], req.Response, accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

type declineRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

func (h *ApplicationsHandler) Decline(w http.ResponseWriter, r *http.Request) {
	var req declineRequest
	if r.Body != nil {
		// body is optional; an unknown or absent reason gets the default
		json.NewDecoder(r.Body).Decode(&req)
	}
	app, err := h.engine.Decline(r.Context(), mux.Vars(r)["id"], req.Reason, req.Notes, accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

func (h *ApplicationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	app, err := h.engine.Withdraw(r.Context(), mux.Vars(r)["id"], accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

type reportAttendanceRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

func (h *ApplicationsHandler) ReportAttendance(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validator.Validate(r.Context(), "report_attendance", body); err != nil {
		writeError(w, err)
		return
	}
	var req reportAttendanceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	app, err := h.engine.ReportAttendance(r.Context(), mux.Vars(r)["id"], models.AttendanceRecord{
		Date:       req.Date,
		Status:     req.Status,
		ReportedBy: accountID(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

// pagination parses limit/offset query params with the usual bounds.
func pagination(limitStr, offsetStr string) (int, int) {
	limit := 50
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
