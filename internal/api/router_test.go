package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexanderramin/shopfloor/internal/metrics"
	"github.com/alexanderramin/shopfloor/internal/repository"
	"github.com/alexanderramin/shopfloor/internal/service"
	"github.com/alexanderramin/shopfloor/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router  *gin.Engine
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := testutil.NewTestDB(t)
	shiftRepo := repository.NewSQLiteShiftRepo(database)
	machineRepo := repository.NewSQLiteMachineRepo(database)
	requestRepo := repository.NewSQLiteRequestRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	m := metrics.New()

	router := NewRouter(Deps{
		Shifts:   service.NewShiftService(shiftRepo),
		Machines: service.NewMachineService(machineRepo),
		Requests: service.NewRequestService(requestRepo, machineRepo),
		Schedules: service.NewScheduleService(shiftRepo, machineRepo, requestRepo, planRepo,
			testutil.NewTestUoW(database), service.ScheduleOptions{Metrics: m}),
		Metrics: m,
	})
	return &testServer{router: router, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// envelope decodes the response body with data left raw.
func envelope(t *testing.T, w *httptest.ResponseRecorder) (json.RawMessage, *Error) {
	t.Helper()
	var body struct {
		Data  json.RawMessage `json:"data"`
		Error *Error          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Data, body.Error
}

func (s *testServer) seed(t *testing.T) (machineID string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/shifts", `{"name":"Early","start":"06:00","end":"14:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/api/shifts", `{"name":"Late","start":"14:00","end":"22:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/machines", `{"name":"Press-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data, _ := envelope(t, w)
	var machine MachineDTO
	require.NoError(t, json.Unmarshal(data, &machine))

	w = s.do(t, http.MethodPut, "/api/machines/"+machine.ID+"/setups", `{"item_id":"Y","setup_min":30}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, body := range []string{
		`{"machine_id":"` + machine.ID + `","item_id":"X","quantity":5,"production_time_per_unit":60,"requested_start":"2025-06-02T06:00:00Z"}`,
		`{"machine_id":"` + machine.ID + `","item_id":"Y","quantity":2,"production_time_per_unit":"60","requested_start":"2025-06-02T11:00:00Z"}`,
	} {
		w = s.do(t, http.MethodPost, "/api/production", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	return machine.ID
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestShifts_CreateAndList(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/shifts",
		`{"name":"Night","start":"22:00","end":"06:00","pauses":[{"start":"02:00","end":"02:30"}],"color":"#123abc"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/shifts", "")
	require.Equal(t, http.StatusOK, w.Code)
	data, _ := envelope(t, w)
	var shifts []ShiftDTO
	require.NoError(t, json.Unmarshal(data, &shifts))
	require.Len(t, shifts, 1)
	assert.Equal(t, "22:00", shifts[0].Start)
	assert.Equal(t, 450, shifts[0].WorkingMinutes)
	require.NotNil(t, shifts[0].Working)
	assert.True(t, *shifts[0].Working, "working defaults to true")
}

func TestShifts_CreateInvalid(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing end", `{"name":"Early","start":"06:00"}`},
		{"malformed time", `{"name":"Early","start":"6am","end":"14:00"}`},
		{"zero length", `{"name":"Early","start":"06:00","end":"06:00"}`},
		{"bad color", `{"name":"Early","start":"06:00","end":"14:00","color":"blue"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/shifts", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			_, apiErr := envelope(t, w)
			require.NotNil(t, apiErr)
			assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
		})
	}
}

func TestProduction_RejectsInvalidRate(t *testing.T) {
	s := newTestServer(t)
	machineID := s.seed(t)

	w := s.do(t, http.MethodPost, "/api/production",
		`{"machine_id":"`+machineID+`","item_id":"Z","quantity":1,"production_time_per_unit":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestProduction_NotFound(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/production/missing", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	_, apiErr := envelope(t, w)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestSchedule_Preview(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	w := s.do(t, http.MethodGet, "/api/production/schedule", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data, _ := envelope(t, w)

	var resp struct {
		Committed bool `json:"committed"`
		Summary   struct {
			TaskCount  int `json:"task_count"`
			SetupCount int `json:"setup_count"`
		} `json:"summary"`
		Machines []struct {
			MachineName string `json:"machine_name"`
			Blocks      []struct {
				Kind  string `json:"kind"`
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"blocks"`
		} `json:"machines"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.False(t, resp.Committed)
	assert.Equal(t, 2, resp.Summary.TaskCount)
	assert.Equal(t, 1, resp.Summary.SetupCount)
	require.Len(t, resp.Machines, 1)
	assert.Equal(t, "Press-01", resp.Machines[0].MachineName)

	blocks := resp.Machines[0].Blocks
	require.Len(t, blocks, 3)
	assert.Equal(t, "2025-06-02T11:00:00Z", blocks[0].End)
	assert.Equal(t, "setup", blocks[1].Kind)
	assert.Equal(t, "2025-06-02T11:30:00Z", blocks[1].End)
	assert.Equal(t, "2025-06-02T13:30:00Z", blocks[2].End)
}

func TestSchedule_PreviewCSVAndPDF(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	w := s.do(t, http.MethodGet, "/api/production/schedule?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 4, "header plus three blocks")

	w = s.do(t, http.MethodGet, "/api/production/schedule?format=pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = s.do(t, http.MethodGet, "/api/production/schedule?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedule_RecalculateAndLatest(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	w := s.do(t, http.MethodGet, "/api/production/schedule/latest", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	_, apiErr := envelope(t, w)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	w = s.do(t, http.MethodPost, "/api/production/recalculate", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data, _ := envelope(t, w)
	var committed struct {
		PlanID    string `json:"plan_id"`
		Committed bool   `json:"committed"`
	}
	require.NoError(t, json.Unmarshal(data, &committed))
	assert.True(t, committed.Committed)
	require.NotEmpty(t, committed.PlanID)

	w = s.do(t, http.MethodGet, "/api/production/schedule/latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	data, _ = envelope(t, w)
	var latest struct {
		PlanID string `json:"plan_id"`
	}
	require.NoError(t, json.Unmarshal(data, &latest))
	assert.Equal(t, committed.PlanID, latest.PlanID)
}

func TestSchedule_UnknownFormatCommitsNothing(t *testing.T) {
	s := newTestServer(t)
	machineID := s.seed(t)

	w := s.do(t, http.MethodPost, "/api/production/recalculate?format=xml", "")
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	_, apiErr := envelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	w = s.do(t, http.MethodGet, "/api/production/schedule/latest", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "no plan was stored")

	w = s.do(t, http.MethodGet, "/api/production/machine/"+machineID+"?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/production/schedule/latest?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedule_RecalculateRepeatedMachine(t *testing.T) {
	s := newTestServer(t)
	machineID := s.seed(t)

	w := s.do(t, http.MethodPost, "/api/production/recalculate",
		`{"machine_ids":["`+machineID+`","`+machineID+`"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data, _ := envelope(t, w)
	var resp struct {
		Summary struct {
			TaskCount  int `json:"task_count"`
			SetupCount int `json:"setup_count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, 2, resp.Summary.TaskCount)
	assert.Equal(t, 1, resp.Summary.SetupCount)
}

func TestSchedule_RecalculateWithoutShifts(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/production/recalculate", `{}`)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	_, apiErr := envelope(t, w)
	assert.Equal(t, "NO_SHIFTS", apiErr.Code)
}

func TestSchedule_MachineScope(t *testing.T) {
	s := newTestServer(t)
	machineID := s.seed(t)

	w := s.do(t, http.MethodGet, "/api/production/machine/"+machineID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/production/machine/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/healthz", "")

	w := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `shopfloor_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}
