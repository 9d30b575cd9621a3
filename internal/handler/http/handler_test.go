package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/jwt"
	approvalservice "github.com/cmlabs-hris/daily-report-go/internal/service/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/service/hierarchy"
	reportservice "github.com/cmlabs-hris/daily-report-go/internal/service/report"
	"github.com/cmlabs-hris/daily-report-go/internal/service/servicetest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Count int `json:"count"`
	} `json:"meta"`
}

type testServer struct {
	router *chi.Mux
	jwt    jwt.Service
	dir    *servicetest.Directory
}

// newTestServer wires the real services over in-memory storage. X reports to A and B;
// C is outside X's chain.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := servicetest.NewDirectory().Add("X", "A", "B", "C").Link("X", "A").Link("X", "B")
	reports := servicetest.NewReports()
	dir.Reports = reports
	approvals := servicetest.NewApprovals(reports)
	tx := &servicetest.Transactor{}

	h := hierarchy.NewHierarchyService(dir, employee.DefaultSupervisorPolicy)
	agg := approvalservice.NewRatingAggregator(approvals, reports, h)
	ledger := approvalservice.NewApprovalService(tx, approvals, reports, h, agg, &servicetest.Auditor{}, approval.DefaultRatingBounds)
	coordinator := reportservice.NewReportService(tx, reports, ledger, h)

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	router := NewRouter(
		RouterOptions{Env: "test", Version: "test", LogLevel: slog.LevelError},
		jwtService,
		NewAuthHandler(jwtService),
		NewReportHandler(coordinator, ledger),
		NewSupervisorHandler(h, ledger),
	)
	return &testServer{router: router, jwt: jwtService, dir: dir}
}

func (s *testServer) token(t *testing.T, employeeID string) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(employeeID, "EMP-"+employeeID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (s *testServer) submit(t *testing.T, employeeID string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/reports", s.token(t, employeeID), map[string]interface{}{
		"date":    "2026-03-02",
		"content": map[string]interface{}{"tasks": []string{"write tests"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var data struct {
		Report struct {
			ID string `json:"id"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Report.ID
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/supervisor/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/supervisor/status", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RevokedToken(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "A")
	s.jwt.RevokeToken(token, time.Now().Add(time.Hour))

	rec, _ := s.do(t, http.MethodGet, "/api/v1/supervisor/status", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Logout(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "A")

	rec, _ := s.do(t, http.MethodGet, "/api/v1/supervisor/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.True(t, s.jwt.IsTokenRevoked(token))

	rec, _ = s.do(t, http.MethodGet, "/api/v1/supervisor/status", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/supervisor/status", s.token(t, "B"), nil)
	assert.Equal(t, http.StatusOK, rec.Code, "other sessions are unaffected")
}

func TestRouter_TokenWithoutEmployee(t *testing.T) {
	s := newTestServer(t)
	_, token, err := s.jwt.JWTAuth().Encode(map[string]interface{}{
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	rec, env := s.do(t, http.MethodGet, "/api/v1/supervisor/status", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestReportHandler_SubmitAndResubmit(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "X")
	body := map[string]interface{}{"date": "2026-03-02", "content": map[string]string{"summary": "v1"}}

	rec, env := s.do(t, http.MethodPost, "/api/v1/reports", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first struct {
		Created            bool `json:"created"`
		ApprovalsRequested int  `json:"approvals_requested"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.True(t, first.Created)
	assert.Equal(t, 2, first.ApprovalsRequested)

	body["content"] = map[string]string{"summary": "v2"}
	rec, env = s.do(t, http.MethodPost, "/api/v1/reports", token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	var second struct {
		Created            bool `json:"created"`
		ApprovalsRequested int  `json:"approvals_requested"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.False(t, second.Created)
	assert.Zero(t, second.ApprovalsRequested)
}

func TestReportHandler_SubmitValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "X")

	rec, env := s.do(t, http.MethodPost, "/api/v1/reports", token, map[string]interface{}{"date": "2026/03/02"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "date")
	assert.Contains(t, env.Error.Details, "content")

	rec, _ = s.do(t, http.MethodPost, "/api/v1/reports", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandler_ReviewFlow(t *testing.T) {
	s := newTestServer(t)
	reportID := s.submit(t, "X")
	path := "/api/v1/reports/" + reportID + "/review"

	rec, env := s.do(t, http.MethodPut, path, s.token(t, "A"), map[string]interface{}{"rating": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reviewed struct {
		ReportStatus    string   `json:"report_status"`
		CompositeRating *float64 `json:"composite_rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reviewed))
	assert.Equal(t, "reviewed", reviewed.ReportStatus)
	require.NotNil(t, reviewed.CompositeRating)
	assert.Equal(t, 4.0, *reviewed.CompositeRating)

	rec, env = s.do(t, http.MethodPut, path, s.token(t, "B"), map[string]interface{}{"rating": 5, "feedback": "great"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &reviewed))
	assert.Equal(t, 4.5, *reviewed.CompositeRating)

	rec, env = s.do(t, http.MethodPut, path, s.token(t, "B"), map[string]interface{}{"rating": 3})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	rec, _ = s.do(t, http.MethodPut, path, s.token(t, "C"), map[string]interface{}{"rating": 3})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/reports/missing/review", s.token(t, "A"), map[string]interface{}{"rating": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(t, http.MethodPut, path, s.token(t, "A"), map[string]interface{}{"rating": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "rating")
}

func TestReportHandler_GetAndApprovals(t *testing.T) {
	s := newTestServer(t)
	reportID := s.submit(t, "X")

	rec, _ := s.do(t, http.MethodGet, "/api/v1/reports/"+reportID, s.token(t, "X"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reports/"+reportID, s.token(t, "C"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reports/nope", s.token(t, "X"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/api/v1/reports/"+reportID+"/approvals", s.token(t, "A"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Count)
}

func TestReportHandler_ListByDateAndRecompute(t *testing.T) {
	s := newTestServer(t)
	reportID := s.submit(t, "X")

	rec, env := s.do(t, http.MethodGet, "/api/v1/reports?date=2026-03-02", s.token(t, "A"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, reportID, list[0]["id"])

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reports", s.token(t, "A"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/reports/"+reportID+"/recompute", s.token(t, "B"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/reports/"+reportID+"/recompute", s.token(t, "C"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSupervisorHandler(t *testing.T) {
	s := newTestServer(t)
	s.submit(t, "X")

	rec, env := s.do(t, http.MethodGet, "/api/v1/supervisor/status", s.token(t, "A"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status employee.SupervisorStatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.HasSubordinates)
	assert.True(t, status.IsSupervisor)

	rec, env = s.do(t, http.MethodGet, "/api/v1/supervisor/subordinates?scope=all", s.token(t, "A"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var subs employee.SubordinateListResponse
	require.NoError(t, json.Unmarshal(env.Data, &subs))
	assert.Equal(t, employee.ScopeAll, subs.Scope)
	require.Len(t, subs.Subordinates, 1)
	assert.Equal(t, "X", subs.Subordinates[0].ID)
	assert.Equal(t, 1, subs.Subordinates[0].PendingReportsCount)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/supervisor/subordinates?scope=up", s.token(t, "A"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/supervisor/pending", s.token(t, "B"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []approval.PendingApprovalResponse
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "X", pending[0].EmployeeID)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Count)
}

func TestSupervisorHandler_Subordinate(t *testing.T) {
	s := newTestServer(t)
	s.submit(t, "X")

	rec, env := s.do(t, http.MethodGet, "/api/v1/supervisor/employees/X", s.token(t, "A"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detail employee.EmployeeDetailResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "X", detail.Employee.ID)
	assert.Equal(t, 1, detail.Employee.PendingReportsCount)
	require.Len(t, detail.Supervisors, 2)
	assert.Equal(t, "A", detail.Supervisors[0].ID)
	assert.Equal(t, "B", detail.Supervisors[1].ID)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/supervisor/employees/X", s.token(t, "C"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/supervisor/employees/A", s.token(t, "X"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
