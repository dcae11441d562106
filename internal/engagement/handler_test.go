package engagement

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sales_pipeline_backend/platform/httpkit"
	"sales_pipeline_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	r.POST("/engagement/check", h.Check)
	r.GET("/engagement/goal-progress", h.GoalProgress)
	return r
}

func TestCheckRequiresDeviceID(t *testing.T) {
	svc := NewService(&fakeLeadStats{}, fakeGoals{}, &recordingNotifier{}, nil, logger.Nop())
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/engagement/check", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckRejectsUnknownTimeZone(t *testing.T) {
	svc := NewService(&fakeLeadStats{}, fakeGoals{}, &recordingNotifier{}, nil, logger.Nop())
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/engagement/check?tz=Mars/Olympus", nil)
	req.Header.Set(httpkit.HeaderDeviceID, "dev-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckReturnsRaisedNotifications(t *testing.T) {
	svc := NewService(&fakeLeadStats{}, fakeGoals{}, &recordingNotifier{}, nil, logger.Nop())
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/engagement/check?tz=Africa/Harare", nil)
	req.Header.Set(httpkit.HeaderDeviceID, "dev-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body CheckResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "Morning Briefing", body.Notifications[0].Title)
}

func TestGoalProgressWithoutGoalReportsAbsence(t *testing.T) {
	svc := NewService(&fakeLeadStats{}, fakeGoals{}, &recordingNotifier{}, nil, logger.Nop())
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/engagement/goal-progress", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hasGoal":false}`, w.Body.String())
}

func TestGoalProgressUsesRequestedTimeZone(t *testing.T) {
	stats := &fakeLeadStats{won: 500}
	svc := NewService(stats, fakeGoals{amount: 1000, ok: true}, &recordingNotifier{}, nil, logger.Nop())
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/engagement/goal-progress?tz=Pacific/Auckland", nil))
	require.Equal(t, http.StatusOK, w.Code)

	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	assert.Equal(t, auckland.String(), stats.since.Location().String())
	assert.Equal(t, 1, stats.since.Day())
	assert.Zero(t, stats.since.Hour())
}

func TestGoalProgressRejectsUnknownTimeZone(t *testing.T) {
	svc := NewService(&fakeLeadStats{}, fakeGoals{amount: 1000, ok: true}, &recordingNotifier{}, nil, logger.Nop())
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/engagement/goal-progress?tz=Mars/Olympus", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
