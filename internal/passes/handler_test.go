package passes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	e, _ := newTestEngine(t)
	router := gin.New()
	NewHandler(e, 0, nil).Register(router.Group("/api"))
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func generate(t *testing.T, router http.Handler, id string) string {
	t.Helper()
	code, env := do(t, router, http.MethodPost, "/api/student/"+id+"/generate-pass", nil)
	require.Equal(t, http.StatusOK, code)
	var data struct {
		PassID string `json:"pass_id"`
		QRData string `json:"qr_data"`
		QRURL  string `json:"qr_code_data_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.PassID)
	require.NotEmpty(t, data.QRURL)
	return data.QRData
}

func TestHandler_CheckInFlow(t *testing.T) {
	router := newTestRouter(t)
	qr := generate(t, router, "STU001")

	code, env := do(t, router, http.MethodPost, "/api/scan", ScanRequest{QRData: qr})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "Entry provided successfully!", env.Message)
	var result ScanResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotNil(t, result.Student)
	assert.True(t, result.Student.Entered)

	code, env = do(t, router, http.MethodPost, "/api/scan", ScanRequest{QRData: qr})
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, ReasonAlreadyEntered, result.Reason)
	require.NotNil(t, result.Student.EnteredAt)

	code, env = do(t, router, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"total":8,"entered_count":1,"remaining":7,"issued_count":1}`, string(env.Data))

	code, env = do(t, router, http.MethodGet, "/api/status-log", nil)
	assert.Equal(t, http.StatusOK, code)
	var logs struct {
		Logs []struct {
			Status string `json:"status"`
		} `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.Len(t, logs.Logs, 3)
	assert.Equal(t, "duplicate", logs.Logs[0].Status)
}

func TestHandler_ScanErrors(t *testing.T) {
	router := newTestRouter(t)

	code, env := do(t, router, http.MethodPost, "/api/scan", ScanRequest{QRData: "garbage"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, _ = do(t, router, http.MethodPost, "/api/scan", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, router, http.MethodPost, "/api/scan", ScanRequest{QRData: `{"student_id":"NOPE","pass_id":"x"}`})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, env.Error, "Student not found")

	stale := generate(t, router, "STU002")
	generate(t, router, "STU002")
	code, env = do(t, router, http.MethodPost, "/api/scan", ScanRequest{QRData: stale})
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, env.Success)
	var result ScanResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, ReasonInvalidCredential, result.Reason)
	assert.Nil(t, result.Student)
}

func TestHandler_StudentQueries(t *testing.T) {
	router := newTestRouter(t)

	code, _ := do(t, router, http.MethodPost, "/api/student/NOPE/generate-pass", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, router, http.MethodGet, "/api/student/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, router, http.MethodPost, "/api/student/NOPE/refresh", nil)
	assert.Equal(t, http.StatusNotFound, code)

	generate(t, router, "STU003")

	code, env := do(t, router, http.MethodGet, "/api/student/STU003", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "pass_id")
	assert.Contains(t, string(env.Data), `"pass_generated":true`)

	code, env = do(t, router, http.MethodPost, "/api/student/STU003/refresh", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"scanned":false`)

	code, env = do(t, router, http.MethodGet, "/api/students", nil)
	assert.Equal(t, http.StatusOK, code)
	var list struct {
		Students []map[string]interface{} `json:"students"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Students, 8)
	for _, s := range list.Students {
		assert.NotContains(t, s, "pass_id")
	}

	code, env = do(t, router, http.MethodPost, "/api/reset-data", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	_, env = do(t, router, http.MethodGet, "/api/stats", nil)
	assert.JSONEq(t, `{"total":8,"entered_count":0,"remaining":8,"issued_count":0}`, string(env.Data))
}
