package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwan/payroll-engine/api"
	"github.com/kwan/payroll-engine/payroll"
	"github.com/kwan/payroll-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testToken = "token-juan"

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	verifier := api.StaticVerifier{
		testToken: {UID: "uid-juan", Email: "juan@example.com", Name: "Juan Dela Cruz"},
	}
	handler := api.NewHandler(store, verifier, nil)
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// =============================================================================
// AUTH
// =============================================================================

func TestAttendance_RequiresBearerToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/attendance/timein", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/attendance/timein", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAuth_CreatesUserOnFirstRequest(t *testing.T) {
	// GIVEN: A verified identity with no local user row
	// WHEN: The first authenticated request arrives
	// THEN: A user row is created from the identity triple

	srv, store := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/attendance/timein", testToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	user, err := store.GetUserByUID(context.Background(), "uid-juan")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Juan Dela Cruz", user.Name)
	assert.Equal(t, "juan@example.com", user.Email)

	// Second request reuses the same row.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/attendance/timeout", testToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestPunch_Flow(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/api/attendance"

	resp := doJSON(t, http.MethodPost, base+"/timein", testToken, api.PunchRequest{Note: "morning"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ev := decode[api.EventDTO](t, resp)
	assert.Equal(t, "in", ev.Kind)
	assert.Equal(t, "morning", ev.Note)

	// Double clock-in violates the alternation invariant.
	resp = doJSON(t, http.MethodPost, base+"/timein", testToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Breaks are accepted mid-shift.
	resp = doJSON(t, http.MethodPost, base+"/breakin", testToken, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, base+"/breakout", testToken, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, base+"/timeout", testToken, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// And a trailing clock-out has nothing to close.
	resp = doJSON(t, http.MethodPost, base+"/timeout", testToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestDayHours_ClassifiesToday(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/api/attendance"

	resp := doJSON(t, http.MethodPost, base+"/timein", testToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, base+"/timeout", testToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	today := time.Now().UTC().Format("2006-01-02")
	resp = doJSON(t, http.MethodGet, base+"/hours?date="+today, testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	day := decode[api.DayHoursDTO](t, resp)
	assert.Equal(t, today, day.Date)
	// Punches landed seconds apart; the point is classification ran.
	assert.GreaterOrEqual(t, day.TotalHours, 0.0)
}

// =============================================================================
// PAYROLL
// =============================================================================

func seedPayrollUser(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveUser(ctx, payroll.User{
		ID: "emp-1", UID: "uid-1", Email: "juan@example.com", Name: "Juan Dela Cruz", Role: "user",
	}))
	require.NoError(t, store.SetSalaryProfile(ctx, "emp-1", payroll.SalaryProfile{
		BaseSalary:  decimal.NewFromInt(21000),
		YearlyBonus: decimal.Zero,
		ClientBonus: decimal.Zero,
	}))
}

func TestComputePayroll_ReturnsRecordAndSummary(t *testing.T) {
	srv, store := newTestServer(t)
	seedPayrollUser(t, store)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/payroll/compute", "",
		api.ComputePayrollRequest{UserID: "emp-1", Month: "2025-03"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	result := decode[api.ComputePayrollResponse](t, resp)
	assert.Equal(t, "emp-1", result.Payroll.UserID)
	assert.Equal(t, "2025-03", result.Payroll.Month)
	assert.Equal(t, "Juan Dela Cruz", result.Summary.User)
	assert.InDelta(t, 1362.5, result.Payroll.Deductions, 0.01)
	assert.InDelta(t, result.Payroll.Gross-result.Payroll.Deductions, result.Payroll.Net, 0.01)
}

func TestComputePayroll_UnknownUser_NotFound(t *testing.T) {
	srv, store := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/payroll/compute", "",
		api.ComputePayrollRequest{UserID: "ghost", Month: "2025-03"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	records, err := store.RecordsByMonth(context.Background(), payroll.Month{Year: 2025, Month: time.March})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestComputePayroll_BadMonth_Rejected(t *testing.T) {
	srv, store := newTestServer(t)
	seedPayrollUser(t, store)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/payroll/compute", "",
		api.ComputePayrollRequest{UserID: "emp-1", Month: "03-2025"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestPayrollReport_ListsMonthRecords(t *testing.T) {
	srv, store := newTestServer(t)
	seedPayrollUser(t, store)

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/payroll/compute", "",
			api.ComputePayrollRequest{UserID: "emp-1", Month: "2025-03"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/payroll/report?month=2025-03", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := decode[[]api.PayrollRecordDTO](t, resp)
	assert.Len(t, records, 2, "insert-only writes accumulate")
}

// =============================================================================
// USERS & HOLIDAYS
// =============================================================================

func TestSetSalary_ThenCompute(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.SaveUser(context.Background(), payroll.User{ID: "emp-1", Name: "Juan"}))

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/users/emp-1/salary", "",
		api.SalaryProfileRequest{BaseSalary: 21000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payroll/compute", "",
		api.ComputePayrollRequest{UserID: "emp-1", Month: "2025-03"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestSetSalary_UnknownUser_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/users/ghost/salary", "",
		api.SalaryProfileRequest{BaseSalary: 21000})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHolidays_CreateAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/holidays", "",
		api.CreateHolidayRequest{Date: "2025-12-25", Kind: "regular", Name: "Christmas Day"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.HolidayDTO](t, resp)
	assert.NotEmpty(t, created.ID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/holidays?from=2025-12-01&to=2026-01-01", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	holidays := decode[[]api.HolidayDTO](t, resp)
	require.Len(t, holidays, 1)
	assert.Equal(t, "Christmas Day", holidays[0].Name)
}

func TestCreateHoliday_InvalidKind_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/holidays", "",
		api.CreateHolidayRequest{Date: "2025-12-25", Kind: "bank"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
