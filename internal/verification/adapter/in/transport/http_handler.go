package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/auth"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/ws"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/in"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler exposes the verification service over HTTP
type HTTPHandler struct {
	reportsUC in.ReportLifecycleUseCase
	voteUC    in.SubmitVoteUseCase
	statusUC  in.GetVerificationStatusUseCase
	delayUC   in.PredictDelayUseCase
	cascadeUC in.TriggerDelayCascadeUseCase
	riders    rider.Repository
	jwt       *auth.JWTService
	hub       *ws.Hub
	log       *logger.Logger
}

func NewHTTPHandler(
	reportsUC in.ReportLifecycleUseCase,
	voteUC in.SubmitVoteUseCase,
	statusUC in.GetVerificationStatusUseCase,
	delayUC in.PredictDelayUseCase,
	cascadeUC in.TriggerDelayCascadeUseCase,
	riders rider.Repository,
	jwtService *auth.JWTService,
	hub *ws.Hub,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		reportsUC: reportsUC,
		voteUC:    voteUC,
		statusUC:  statusUC,
		delayUC:   delayUC,
		cascadeUC: cascadeUC,
		riders:    riders,
		jwt:       jwtService,
		hub:       hub,
		log:       log,
	}
}

// RegisterRoutes wires all HTTP routes
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMW func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	// auth
	mux.HandleFunc("POST /auth/login", h.handleLogin)

	// reports and verification
	mux.HandleFunc("POST /reports", authMW(h.handleCreateReport))
	mux.HandleFunc("GET /reports/{report_id}", authMW(h.handleGetReport))
	mux.HandleFunc("POST /reports/{report_id}/votes", authMW(h.handleSubmitVote))
	mux.HandleFunc("GET /reports/{report_id}/verification", authMW(h.handleVerificationStatus))
	mux.HandleFunc("POST /reports/{report_id}/resolve", authMW(AdminTierOnly(h.handleResolveReport)))

	// delay estimation and cascade
	mux.HandleFunc("GET /trips/{trip_id}/delay", authMW(h.handlePredictDelay))
	mux.HandleFunc("POST /trips/{trip_id}/delay-cascade", authMW(AdminTierOnly(h.handleDelayCascade)))

	// live notifications
	mux.HandleFunc("GET /ws", h.hub.ServeWS)
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// LoginHTTPRequest — credentials for POST /auth/login
type LoginHTTPRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHTTPResponse — token plus the rider's public profile
type LoginHTTPResponse struct {
	Token string       `json:"token"`
	Rider RiderHTTPDTO `json:"rider"`
}

// RiderHTTPDTO is the public view of a rider account
type RiderHTTPDTO struct {
	ID                   string `json:"id"`
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Role                 string `json:"role"`
	ReputationPoints     int    `json:"reputation_points"`
	VerifiedReportsCount int    `json:"verified_reports_count"`
	Badge                string `json:"badge,omitempty"`
}

func (h *HTTPHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	rd, err := h.riders.FindByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(rd.HashedPassword, req.Password) {
		h.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !rd.IsActive() {
		h.respondError(w, http.StatusForbidden, "account is not active")
		return
	}

	token, err := h.jwt.GenerateToken(rd.ID, rd.Email, string(rd.Role))
	if err != nil {
		h.log.Error(logger.Entry{
			Action:  "token_generation_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, LoginHTTPResponse{
		Token: token,
		Rider: RiderHTTPDTO{
			ID:                   rd.ID,
			Email:                rd.Email,
			Name:                 rd.Name,
			Role:                 string(rd.Role),
			ReputationPoints:     rd.ReputationPoints,
			VerifiedReportsCount: rd.VerifiedReportsCount,
			Badge:                rd.Badge,
		},
	})
}

// CreateReportHTTPRequest — body of POST /reports
type CreateReportHTTPRequest struct {
	VehicleTripID string   `json:"vehicle_trip_id"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

func (h *HTTPHandler) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateReportHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.VehicleTripID == "" {
		h.respondError(w, http.StatusBadRequest, "vehicle_trip_id is required")
		return
	}
	category, ok := parseCategory(req.Category)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid category")
		return
	}

	report, err := h.reportsUC.Create(ctx, in.CreateReportInput{
		AuthorID:      riderIDFromContext(ctx),
		AuthorRole:    riderRoleFromContext(ctx),
		VehicleTripID: req.VehicleTripID,
		Category:      category,
		Description:   req.Description,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, report)
}

func (h *HTTPHandler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportsUC.Get(r.Context(), r.PathValue("report_id"))
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// SubmitVoteHTTPRequest — body of POST /reports/{report_id}/votes
type SubmitVoteHTTPRequest struct {
	Confirm *bool `json:"confirm"`
}

func (h *HTTPHandler) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SubmitVoteHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Confirm == nil {
		h.respondError(w, http.StatusBadRequest, "confirm is required")
		return
	}

	status, err := h.voteUC.Execute(ctx, in.SubmitVoteInput{
		ReportID: r.PathValue("report_id"),
		VoterID:  riderIDFromContext(ctx),
		Confirm:  *req.Confirm,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, status)
}

func (h *HTTPHandler) handleVerificationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.statusUC.Execute(ctx, r.PathValue("report_id"), riderIDFromContext(ctx))
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, status)
}

func (h *HTTPHandler) handleResolveReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportsUC.Resolve(r.Context(), r.PathValue("report_id"))
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

func (h *HTTPHandler) handlePredictDelay(w http.ResponseWriter, r *http.Request) {
	input := in.PredictDelayInput{TripID: r.PathValue("trip_id")}

	// lat/lon arrive together or not at all
	latStr, lonStr := r.URL.Query().Get("lat"), r.URL.Query().Get("lon")
	if (latStr == "") != (lonStr == "") {
		h.respondError(w, http.StatusBadRequest, "lat and lon must be supplied together")
		return
	}
	if latStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			h.respondError(w, http.StatusBadRequest, "invalid coordinates")
			return
		}
		input.Latitude, input.Longitude = &lat, &lon
	}

	estimate, err := h.delayUC.Execute(r.Context(), input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, estimate)
}

func (h *HTTPHandler) handleDelayCascade(w http.ResponseWriter, r *http.Request) {
	result, err := h.cascadeUC.Execute(r.Context(), r.PathValue("trip_id"))
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func parseCategory(s string) (domain.ReportCategory, bool) {
	switch domain.ReportCategory(s) {
	case domain.CategoryTrafficJam, domain.CategoryVehicleBreakdown,
		domain.CategoryMedicalHelp, domain.CategoryOther:
		return domain.ReportCategory(s), true
	default:
		return "", false
	}
}

// decodeBody parses a size-limited JSON body; on failure it writes the
// error response and returns false
func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return false
		}
		h.log.Error(logger.Entry{
			Action:  "parse_request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return false
	}
	return true
}

func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrReportNotFound),
		errors.Is(err, domain.ErrTripNotFound),
		errors.Is(err, rider.ErrRiderNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrDuplicateVote):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSelfVote),
		errors.Is(err, domain.ErrForbidden):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotOnVehicle):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error(logger.Entry{
			Action:  "usecase_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error(logger.Entry{
			Action:  "encode_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
