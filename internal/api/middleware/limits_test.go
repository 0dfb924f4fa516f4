package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type limitedRequest struct {
	Audio string `json:"audio" binding:"required"`
}

func TestBodyLimitMapsToBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(zaptest.NewLogger(t)))
	router.POST("/ask", BodyLimit(16), func(c *gin.Context) {
		var req limitedRequest
		if err := ValidateRequest(c, &req); err != nil {
			HandleError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{"under the limit", `{"audio":"SUQz"}`, http.StatusOK, ""},
		{"over the limit", `{"audio":"` + strings.Repeat("A", 32) + `"}`, http.StatusBadRequest, `{"error":"Audio data is too large"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(tc.body)))

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestTimeoutSetsRequestDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name        string
		timeout     time.Duration
		hasDeadline bool
	}{
		{"write timeout bounds the run", time.Minute, true},
		{"zero leaves the context alone", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var deadline time.Time
			var ok bool

			router := gin.New()
			router.POST("/ask", Timeout(tc.timeout), func(c *gin.Context) {
				deadline, ok = c.Request.Context().Deadline()
				c.Status(http.StatusOK)
			})

			start := time.Now()
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ask", nil))

			assert.Equal(t, tc.hasDeadline, ok)
			if tc.hasDeadline {
				assert.WithinDuration(t, start.Add(tc.timeout), deadline, 5*time.Second)
			}
		})
	}
}

func TestTimeoutCancelsAfterDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var err error
	router := gin.New()
	router.POST("/ask", Timeout(10*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
		err = c.Request.Context().Err()
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ask", nil))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
