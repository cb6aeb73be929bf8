package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/wellcheck/internal/middleware"
	"github.com/soaringjerry/wellcheck/internal/screening"
	"github.com/soaringjerry/wellcheck/internal/services"
	"github.com/soaringjerry/wellcheck/internal/utils"
)

const maxBodyBytes = 64 << 10

type Router struct {
	store     Store
	logger    *zap.Logger
	screening *services.ScreeningService
	auth      *services.AuthService
	analytics *services.AnalyticsService
	export    *services.ExportService
}

// NewRouter wires the services over store. A zero tokenTTL uses the
// auth service default.
func NewRouter(store Store, logger *zap.Logger, tokenTTL time.Duration) *Router {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sessions := newSessionStoreAdapter(store)
	return &Router{
		store:     store,
		logger:    logger,
		screening: services.NewScreeningService(sessions, logger.Named("screening")),
		auth:      services.NewAuthService(newAuthStoreAdapter(store), signToken, tokenTTL),
		analytics: services.NewAnalyticsService(sessions),
		export:    services.NewExportService(sessions),
	}
}

func signToken(uid, email string, role services.Role, ttl time.Duration) (string, error) {
	return middleware.SignToken(uid, email, string(role), ttl)
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", rt.handleRegister)
	mux.HandleFunc("POST /api/auth/login", rt.handleLogin)
	mux.HandleFunc("GET /api/screening/instruments", rt.handleInstruments)

	mux.Handle("GET /api/screening/eligibility", authed(rt.handleEligibility))
	mux.Handle("POST /api/screenings", authed(rt.handleSubmit))
	mux.Handle("GET /api/screenings", authed(rt.handleHistory))
	mux.Handle("GET /api/screenings/{id}", authed(rt.handleGetSession))
	mux.Handle("GET /api/screenings/{id}/report", authed(rt.handleReport))

	mux.Handle("GET /api/counselor/analytics", authed(rt.handleAnalytics))
	mux.Handle("GET /api/counselor/export", authed(rt.handleExport))
}

func authed(h http.HandlerFunc) http.Handler {
	return middleware.WithAuth(middleware.RequireAuth(h))
}

func callerFrom(r *http.Request) services.Caller {
	c, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return services.Caller{}
	}
	return services.Caller{UserID: c.UID, Role: services.Role(c.Role)}
}

type errorBody struct {
	Error                 string `json:"error"`
	Code                  string `json:"code"`
	CooldownDaysRemaining int    `json:"cooldown_days_remaining,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorCooldown:
		return http.StatusTooManyRequests
	case services.ErrorStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		rt.logger.Error("unhandled error", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: "internal"})
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	body := errorBody{Error: se.Message, Code: string(se.Code)}
	switch se.Code {
	case services.ErrorCooldown:
		body.CooldownDaysRemaining = se.CooldownDaysRemaining
		body.Error = fmt.Sprintf(utils.T(locale, "error.cooldown"), se.CooldownDaysRemaining)
		w.Header().Set("Retry-After", strconv.Itoa(se.CooldownDaysRemaining*24*60*60))
	case services.ErrorStorage:
		body.Error = utils.T(locale, "error.storage")
	}
	writeJSON(w, statusFor(se.Code), body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.NewInvalidError("request body too large")
		}
		return services.NewInvalidError("invalid json: " + err.Error())
	}
	return nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type authResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeBody(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, services.Role(req.Role))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: res.Token, UserID: res.UserID, Role: string(res.Role)})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeBody(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, UserID: res.UserID, Role: string(res.Role)})
}

// GET /api/screening/instruments?lang=xx
func (rt *Router) handleInstruments(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"locale": locale, "instruments": screening.Catalog(locale)})
}

// GET /api/screening/eligibility
func (rt *Router) handleEligibility(w http.ResponseWriter, r *http.Request) {
	state, err := rt.screening.Eligibility(callerFrom(r))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type sessionView struct {
	SessionID       string                     `json:"session_id"`
	CompletedAt     time.Time                  `json:"completed_at"`
	Outcome         screening.TriageOutcome    `json:"outcome"`
	Recommendations []screening.Recommendation `json:"recommendations"`
}

func newSessionView(s *services.ScreeningSession, locale string) sessionView {
	return sessionView{
		SessionID:       s.ID,
		CompletedAt:     s.CompletedAt,
		Outcome:         s.Outcome,
		Recommendations: services.LocalizeRecommendations(s.Recommendations, locale),
	}
}

// POST /api/screenings
// { phq9: [9], gad7: [7], pss10: [10], ghq12: [12] }
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var set screening.ResponseSet
	if err := decodeBody(w, r, &set); err != nil {
		rt.writeError(w, r, err)
		return
	}
	sess, err := rt.screening.Submit(callerFrom(r), set)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/screenings/"+sess.ID)
	writeJSON(w, http.StatusCreated, newSessionView(sess, middleware.LocaleFromContext(r.Context())))
}

type historyEntry struct {
	SessionID       string                   `json:"session_id"`
	CompletedAt     time.Time                `json:"completed_at"`
	OverallCategory screening.TriageCategory `json:"overall_category"`
	SafetyFlag      bool                     `json:"safety_flag"`
}

// GET /api/screenings
func (rt *Router) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := rt.screening.History(callerFrom(r))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	out := make([]historyEntry, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, historyEntry{SessionID: s.ID, CompletedAt: s.CompletedAt, OverallCategory: s.Outcome.OverallCategory, SafetyFlag: s.Outcome.SafetyFlag})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

// GET /api/screenings/{id}
func (rt *Router) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := rt.screening.GetResult(callerFrom(r), r.PathValue("id"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess, middleware.LocaleFromContext(r.Context())))
}

// GET /api/screenings/{id}/report?format=md|html
func (rt *Router) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, err := rt.screening.GetResult(callerFrom(r), r.PathValue("id"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	switch format := r.URL.Query().Get("format"); format {
	case "", "html":
		b, err := services.ReportHTML(sess, locale)
		if err != nil {
			rt.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(b)
	case "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(services.ReportMarkdown(sess, locale)))
	default:
		rt.writeError(w, r, services.NewInvalidError("unsupported format"))
	}
}

// GET /api/counselor/analytics
func (rt *Router) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.analytics.Summary(callerFrom(r))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GET /api/counselor/export?format=long|score
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := rt.export.ExportCSV(callerFrom(r), r.URL.Query().Get("format"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
	_, _ = w.Write(res.Data)
}
