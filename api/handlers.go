/*
handlers.go - HTTP API handlers for the attendance & payroll system

PURPOSE:
  Exposes the payroll core via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Attendance (authenticated):
    POST   /api/attendance/timein    Clock in
    POST   /api/attendance/timeout   Clock out
    POST   /api/attendance/breakin   Start a break
    POST   /api/attendance/breakout  End a break
    GET    /api/attendance/hours     Classified hours for one day
    GET    /api/attendance/events    Raw punches in a window

  Payroll:
    POST   /api/payroll/compute      Compute a (user, month) payroll
    GET    /api/payroll/report       All records for a month

  Users:
    GET    /api/users                List users
    PUT    /api/users/{id}/salary    Set salary composition

  Holidays:
    GET    /api/holidays             List holidays in a window
    POST   /api/holidays             Add a holiday

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, alternation invariant violations
  - 401: Missing/invalid bearer token
  - 404: Unknown user
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Identity middleware
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kwan/payroll-engine/attendance"
	"github.com/kwan/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Datastore is the full persistence surface the API needs. Both the
// SQLite and the in-memory store satisfy it.
type Datastore interface {
	attendance.Store
	payroll.UserDirectory
	payroll.HolidayCalendar
	payroll.RecordStore

	SaveUser(ctx context.Context, u payroll.User) error
	GetUserByUID(ctx context.Context, uid string) (*payroll.User, error)
	ListUsers(ctx context.Context) ([]payroll.User, error)
	SetSalaryProfile(ctx context.Context, userID string, p payroll.SalaryProfile) error
	SaveHoliday(ctx context.Context, h payroll.Holiday) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    Datastore
	Ledger   *attendance.Ledger
	Composer *payroll.Composer
	Verifier TokenVerifier
}

// NewHandler wires the core onto a datastore. The notifier is optional.
func NewHandler(store Datastore, verifier TokenVerifier, notifier payroll.Notifier) *Handler {
	ledger := attendance.NewLedger(store)
	return &Handler{
		Store:  store,
		Ledger: ledger,
		Composer: &payroll.Composer{
			Attendance: ledger,
			Users:      store,
			Calendar:   store,
			Records:    store,
			Notifier:   notifier,
		},
		Verifier: verifier,
	}
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// punch records one punch of the given kind for the authenticated user.
func (h *Handler) punch(kind attendance.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())

		var req PunchRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid request body", err)
				return
			}
		}

		ev, err := h.Ledger.Record(r.Context(), user.ID, kind, req.Note)
		if err != nil {
			if errors.Is(err, attendance.ErrInvalidTransition) {
				writeError(w, http.StatusBadRequest, err.Error(), nil)
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to record punch", err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventDTO(ev))
	}
}

func (h *Handler) TimeIn(w http.ResponseWriter, r *http.Request)   { h.punch(attendance.KindIn)(w, r) }
func (h *Handler) TimeOut(w http.ResponseWriter, r *http.Request)  { h.punch(attendance.KindOut)(w, r) }
func (h *Handler) BreakIn(w http.ResponseWriter, r *http.Request)  { h.punch(attendance.KindBreakIn)(w, r) }
func (h *Handler) BreakOut(w http.ResponseWriter, r *http.Request) { h.punch(attendance.KindBreakOut)(w, r) }

// DayHours returns the classified hour totals for a single day.
func (h *Handler) DayHours(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	dateStr := r.URL.Query().Get("date")
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		day = parsed
	}
	next := day.AddDate(0, 0, 1)

	events, err := h.Ledger.Query(r.Context(), user.ID, day, next)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}
	holidays, err := h.Store.Holidays(r.Context(), day, next)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	totals, dropped := payroll.ClassifyWithDiagnostics(events, holidays)
	writeJSON(w, http.StatusOK, DayHoursDTO{
		Date:          day.Format("2006-01-02"),
		TotalHours:    totals.Total.InexactFloat64(),
		OvertimeHours: totals.Overtime.InexactFloat64(),
		NightHours:    totals.Night.InexactFloat64(),
		HolidayHours:  totals.Holiday.InexactFloat64(),
		DroppedDates:  dropped,
	})
}

// ListEvents returns the raw punches for the authenticated user in a
// [from, to) window.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	events, err := h.Ledger.Query(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	dtos := make([]EventDTO, len(events))
	for i, ev := range events {
		dtos[i] = toEventDTO(ev)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ComputePayroll runs the monthly computation for one user.
func (h *Handler) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	var req ComputePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	month, err := payroll.ParseMonth(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}

	rec, sum, err := h.Composer.ComputeMonthly(r.Context(), req.UserID, month)
	if err != nil {
		if payroll.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "User not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to compute payroll", err)
		return
	}

	writeJSON(w, http.StatusCreated, ComputePayrollResponse{
		Payroll: toRecordDTO(*rec),
		Summary: toSummaryDTO(*sum),
	})
}

// PayrollReport returns every record computed for a month.
func (h *Handler) PayrollReport(w http.ResponseWriter, r *http.Request) {
	month, err := payroll.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}

	records, err := h.Composer.Report(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load report", err)
		return
	}

	dtos := make([]PayrollRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SetSalary sets a user's salary composition.
func (h *Handler) SetSalary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req SalaryProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	profile := payroll.SalaryProfile{
		BaseSalary:  decimal.NewFromFloat(req.BaseSalary),
		YearlyBonus: decimal.NewFromFloat(req.YearlyBonus),
		ClientBonus: decimal.NewFromFloat(req.ClientBonus),
	}
	if err := h.Store.SetSalaryProfile(r.Context(), userID, profile); err != nil {
		if payroll.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "User not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to set salary", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns holidays, optionally limited to [from, to).
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	from := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)

	if s := r.URL.Query().Get("from"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		from = parsed
	}
	if s := r.URL.Query().Get("to"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		to = parsed
	}

	holidays, err := h.Store.Holidays(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{
			ID:   hol.ID,
			Date: hol.Date.Format("2006-01-02"),
			Kind: string(hol.Kind),
			Name: hol.Name,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday to the calendar.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	kind := payroll.HolidayKind(req.Kind)
	if kind != payroll.HolidayRegular && kind != payroll.HolidaySpecial {
		writeError(w, http.StatusBadRequest, "Kind must be regular or special", nil)
		return
	}

	hol := payroll.Holiday{
		ID:   uuid.NewString(),
		Date: date,
		Kind: kind,
		Name: req.Name,
	}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID:   hol.ID,
		Date: hol.Date.Format("2006-01-02"),
		Kind: string(hol.Kind),
		Name: hol.Name,
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
