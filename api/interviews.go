package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/scheduler"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/workflow"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
	"github.com/gorilla/mux"
)

type InterviewsHandler struct {
	engine    *workflow.Engine
	scheduler *scheduler.Scheduler
	validator *SchemaValidator
}

func NewInterviewsHandler(engine *workflow.Engine, s *scheduler.Scheduler, validator *SchemaValidator) *InterviewsHandler {
	return &InterviewsHandler{engine: engine, scheduler: s, validator: validator}
}

type scheduleInterviewRequest struct {
	ApplicationID string `json:"application_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	Duration      int    `json:"duration"`
	TimeZone      string `json:"time_zone"`
}

type scheduleInterviewResponse struct {
	Application *models.Application `json:"application"`
	Interview   *models.Interview   `json:"interview"`
}

func (h *InterviewsHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validator.Validate(r.Context(), "schedule_interview", body); err != nil {
		writeError(w, err)
		return
	}
	var req scheduleInterviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	app, iv, err := h.engine.ScheduleInterview(r.Context(), req.ApplicationID, workflow.ScheduleInterviewParams{
		Date:      req.Date,
		StartTime: req.StartTime,
		Duration:  req.Duration,
		TimeZone:  req.TimeZone,
		ActorID:   accountID(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, scheduleInterviewResponse{Application: app, Interview: iv}, http.StatusCreated)
}

func (h *InterviewsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	app, err := h.engine.RespondToInterview(r.Context(), mux.Vars(r)["id"], req.Response, accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

type rescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Reason    string `json:"reason"`
}

func (h *InterviewsHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	app, iv, err := h.engine.RescheduleInterview(r.Context(), mux.Vars(r)["id"], req.Date, req.StartTime, req.Reason, accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, scheduleInterviewResponse{Application: app, Interview: iv}, http.StatusOK)
}

type completeInterviewRequest struct {
	Rating    int    `json:"rating"`
	Feedback  string `json:"feedback"`
	Result    string `json:"result"`
	NextSteps string `json:"next_steps"`
}

func (h *InterviewsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	app, iv, err := h.engine.CompleteInterview(r.Context(), mux.Vars(r)["id"], scheduler.CompleteParams{
		Rating:    req.Rating,
		Feedback:  req.Feedback,
		Result:    models.InterviewResult(req.Result),
		NextSteps: req.NextSteps,
	}, accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, scheduleInterviewResponse{Application: app, Interview: iv}, http.StatusOK)
}

func (h *InterviewsHandler) NoShow(w http.ResponseWriter, r *http.Request) {
	app, iv, err := h.engine.MarkInterviewNoShow(r.Context(), mux.Vars(r)["id"], accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, scheduleInterviewResponse{Application: app, Interview: iv}, http.StatusOK)
}

func (h *InterviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	iv, err := h.scheduler.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, iv, http.StatusOK)
}

func (h *InterviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyID := q.Get("company_id")
	if companyID == "" {
		http.Error(w, "company_id is required", http.StatusBadRequest)
		return
	}
	limit, offset := pagination(q.Get("limit"), q.Get("offset"))
	ivs, err := h.scheduler.ListByCompany(r.Context(), companyID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if ivs == nil {
		ivs = []models.Interview{}
	}
	writeJSON(w, map[string]any{"limit": limit, "offset": offset, "items": ivs}, http.StatusOK)
}

// Slots returns the free interview slots for a company on a date.
func (h *InterviewsHandler) Slots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyID := q.Get("company_id")
	date := q.Get("date")
	if companyID == "" || date == "" {
		http.Error(w, "company_id and date are required", http.StatusBadRequest)
		return
	}
	duration := 0
	if d := q.Get("duration"); d != "" {
		v, err := strconv.Atoi(d)
		if err != nil || v <= 0 {
			http.Error(w, "invalid duration", http.StatusBadRequest)
			return
		}
		duration = v
	}

	slots, err := h.scheduler.AvailableSlots(r.Context(), companyID, date, duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"company_id": companyID, "date": date, "slots": slots}, http.StatusOK)
}
