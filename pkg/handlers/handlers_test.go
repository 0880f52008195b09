package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shiftwise/shiftwise-api/pkg/auth"
	"github.com/shiftwise/shiftwise-api/pkg/database"
	"github.com/shiftwise/shiftwise-api/pkg/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/test.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.ManagerUser{}, &database.BusinessRecord{}, &database.WorkerRecord{},
		&database.ScheduleRecord{}, &database.TimeOffRequest{},
	))

	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	require.NoError(t, db.Create(&database.ManagerUser{
		Username: "boss", PasswordHash: hash, BusinessID: "b1",
	}).Error)

	record := database.BusinessRecord{ID: "b1", Name: "Test Diner"}
	require.NoError(t, record.SetBusiness(&models.Business{ID: "b1", Name: "Test Diner"}))
	require.NoError(t, db.Create(&record).Error)

	h := &Handler{DB: db}
	r := gin.New()
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.GET("/business", h.GetBusiness)
		admin.PUT("/business", h.UpdateBusiness)
		admin.DELETE("/business/roles/:id", h.DeleteRole)
		admin.GET("/validate", h.ValidateSetup)
		admin.GET("/workers", h.ListWorkers)
		admin.POST("/workers", h.CreateWorker)
		admin.POST("/schedule/generate", h.GenerateSchedule)
		admin.GET("/schedule/:month", h.GetSchedule)
		admin.GET("/schedule/:month/export", h.ExportSchedule)
		admin.POST("/schedule/:month/shifts/:shiftId/workers", h.AddShiftWorker)
		admin.DELETE("/schedule/:month/shifts/:shiftId/workers/:workerId", h.RemoveShiftWorker)
		admin.GET("/timeoff", h.ListTimeOffRequests)
		admin.PUT("/timeoff/:id", h.DecideTimeOffRequest)
	}

	worker := r.Group("/worker")
	worker.Use(h.WorkerTokenMiddleware())
	{
		worker.PUT("/availability", h.SubmitAvailability)
		worker.GET("/schedule/:month", h.GetMyShifts)
		worker.POST("/timeoff", h.CreateTimeOffRequest)
	}

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func login(t *testing.T, r *gin.Engine) string {
	w, out := doJSON(t, r, http.MethodPost, "/admin/login", "", gin.H{"username": "boss", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	return out["access_token"].(string)
}

func configureBusiness(t *testing.T, r *gin.Engine, token string) {
	w, _ := doJSON(t, r, http.MethodPut, "/admin/business", token, gin.H{
		"roles": []gin.H{{"id": 1, "name": "Server"}},
		"weekly_template": gin.H{
			"1": gin.H{"shifts": []gin.H{ // Monday
				{"name": "Day", "start": "09:00", "end": "17:00", "role_requirements": gin.H{"1": 2}},
			}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func createWorker(t *testing.T, r *gin.Engine, token, name string, rating int) (id, workerToken string) {
	w, out := doJSON(t, r, http.MethodPost, "/admin/workers", token, gin.H{
		"name": name, "rating": rating, "role_ids": []int{1},
	})
	require.Equal(t, http.StatusOK, w.Code)
	worker := out["worker"].(map[string]any)
	return worker["id"].(string), out["token"].(string)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r, _ := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/admin/login", "", gin.H{"username": "boss", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerate_PreconditionErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r)

	// Setup incomplete
	w, _ := doJSON(t, r, http.MethodPost, "/admin/schedule/generate", token, gin.H{"year": 2026, "month": 8})
	assert.Equal(t, http.StatusConflict, w.Code)

	configureBusiness(t, r, token)

	// No workers
	w, _ = doJSON(t, r, http.MethodPost, "/admin/schedule/generate", token, gin.H{"year": 2026, "month": 8})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Missing availability, naming the worker
	createWorker(t, r, token, "Alice", 9)
	w, out := doJSON(t, r, http.MethodPost, "/admin/schedule/generate", token, gin.H{"year": 2026, "month": 8})
	require.Equal(t, http.StatusConflict, w.Code)
	missing := out["missing_workers"].([]any)
	require.Len(t, missing, 1)
	assert.Equal(t, "Alice", missing[0])
}

func TestScheduleLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r)
	configureBusiness(t, r, token)

	aliceID, aliceToken := createWorker(t, r, token, "Alice", 9)
	_, bobToken := createWorker(t, r, token, "Bob", 3)
	carolID, carolToken := createWorker(t, r, token, "Carol", 2)

	for _, wt := range []string{aliceToken, bobToken, carolToken} {
		w, _ := doJSON(t, r, http.MethodPut, "/worker/availability", wt, gin.H{"month": "2026-08", "days": gin.H{}})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, out := doJSON(t, r, http.MethodPost, "/admin/schedule/generate", token, gin.H{"year": 2026, "month": 8})
	require.Equal(t, http.StatusOK, w.Code)

	schedule := out["schedule"].(map[string]any)
	stats := schedule["stats"].(map[string]any)
	// 5 Mondays in August 2026, Alice + Bob fill both slots each time.
	assert.EqualValues(t, 5, stats["total_shifts"])
	assert.EqualValues(t, 5, stats["filled_shifts"])
	assert.EqualValues(t, 0, stats["unfilled_shifts"])
	assert.EqualValues(t, 2, stats["workers_scheduled"])
	assert.EqualValues(t, 3, stats["total_workers"])

	// Alice sees her own assignments, Carol sees none.
	w, out = doJSON(t, r, http.MethodGet, "/worker/schedule/2026-08", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["shifts"].([]any), 5)

	w, out = doJSON(t, r, http.MethodGet, "/worker/schedule/2026-08", carolToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, out["shifts"])

	// Manual edit: removing Alice reopens a slot, Carol can take it.
	w, _ = doJSON(t, r, http.MethodDelete, "/admin/schedule/2026-08/shifts/2026-08-03-0/workers/"+aliceID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, out = doJSON(t, r, http.MethodPost, "/admin/schedule/2026-08/shifts/2026-08-03-0/workers", token,
		gin.H{"worker_id": carolID, "role_id": 1})
	require.Equal(t, http.StatusOK, w.Code)
	shift := out["shift"].(map[string]any)
	assert.Len(t, shift["assigned_workers"].([]any), 2)
	assert.Empty(t, shift["unfilled_positions"])

	// Adding the same worker twice is rejected.
	w, _ = doJSON(t, r, http.MethodPost, "/admin/schedule/2026-08/shifts/2026-08-03-0/workers", token,
		gin.H{"worker_id": carolID, "role_id": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Regeneration is idempotent: unchanged inputs, identical output.
	w, first := doJSON(t, r, http.MethodPost, "/admin/schedule/generate", token, gin.H{"year": 2026, "month": 8})
	require.Equal(t, http.StatusOK, w.Code)
	w, second := doJSON(t, r, http.MethodPost, "/admin/schedule/generate", token, gin.H{"year": 2026, "month": 8})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first["schedule"], second["schedule"])

	// Export includes the header and an assigned row.
	req := httptest.NewRequest(http.MethodGet, "/admin/schedule/2026-08/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "Date,Day,Shift,Time,Role,Worker,Status"))
	assert.Contains(t, body, "2026-08-03,Monday,Day,09:00 - 17:00,Server,Alice,Assigned")
}

func TestSubmitAvailability_Validation(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r)
	configureBusiness(t, r, token)
	_, workerToken := createWorker(t, r, token, "Alice", 9)

	w, _ := doJSON(t, r, http.MethodPut, "/worker/availability", workerToken, gin.H{"month": "August"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/worker/availability", workerToken, gin.H{
		"month": "2026-08",
		"days":  gin.H{"2026-09-01": gin.H{"shifts": []gin.H{{"available": false}}}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/worker/availability", workerToken, gin.H{
		"month": "2026-08",
		"days":  gin.H{"2026-08-03": gin.H{"shifts": []gin.H{{"available": false}}}},
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWorkerTokenMiddleware_RejectsBadToken(t *testing.T) {
	r, _ := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodPut, "/worker/availability", "not-a-token", gin.H{"month": "2026-08"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTimeOffLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r)
	configureBusiness(t, r, token)
	_, workerToken := createWorker(t, r, token, "Alice", 9)

	w, out := doJSON(t, r, http.MethodPost, "/worker/timeoff", workerToken, gin.H{
		"start_date": "2026-08-10", "end_date": "2026-08-12", "reason": "vacation",
	})
	require.Equal(t, http.StatusOK, w.Code)
	request := out["request"].(map[string]any)
	assert.Equal(t, models.RequestPending, request["status"])
	id := int(request["id"].(float64))

	w, out = doJSON(t, r, http.MethodPut, "/admin/timeoff/"+strconv.Itoa(id), token, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RequestApproved, out["request"].(map[string]any)["status"])

	// Decided requests are terminal.
	w, _ = doJSON(t, r, http.MethodPut, "/admin/timeoff/"+strconv.Itoa(id), token, gin.H{"status": "denied"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteRole_PrunesReferences(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r)

	w, _ := doJSON(t, r, http.MethodPut, "/admin/business", token, gin.H{
		"roles": []gin.H{{"id": 1, "name": "Server"}, {"id": 2, "name": "Cook"}},
		"weekly_template": gin.H{
			"1": gin.H{"shifts": []gin.H{
				{"name": "Day", "start": "09:00", "end": "17:00", "role_requirements": gin.H{"1": 1, "2": 1}},
			}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	createWorker(t, r, token, "Alice", 9)

	w, _ = doJSON(t, r, http.MethodDelete, "/admin/business/roles/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, out := doJSON(t, r, http.MethodGet, "/admin/validate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, out["valid"].(bool), "expected no dangling references after role deletion: %v", out["problems"])
}

