package server

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, s string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return &buf
}

func TestGzipRequestDecompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipRequestDecompress())
	router.POST("/test", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"body": string(body)})
	})

	tests := []struct {
		name            string
		body            func(t *testing.T) io.Reader
		contentEncoding string
		want            struct {
			statusCode int
			body       string
		}
	}{
		{
			name:            "uncompressed request",
			body:            func(t *testing.T) io.Reader { return strings.NewReader("Hello, World!") },
			contentEncoding: "",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusOK,
				body:       `{"body":"Hello, World!"}`,
			},
		},
		{
			name:            "gzip compressed request",
			body:            func(t *testing.T) io.Reader { return gzipped(t, "Hello, World!") },
			contentEncoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusOK,
				body:       `{"body":"Hello, World!"}`,
			},
		},
		{
			name:            "invalid gzip request",
			body:            func(t *testing.T) io.Reader { return strings.NewReader("Invalid gzip data") },
			contentEncoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusBadRequest,
				body:       `{"error":"invalid gzip request body"}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", tt.body(t))
			if tt.contentEncoding != "" {
				req.Header.Set("Content-Encoding", tt.contentEncoding)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.JSONEq(t, tt.want.body, w.Body.String())
		})
	}
}

func TestGzipTaskCreate(t *testing.T) {
	api, _ := newMemoryAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/tasks", gzipped(t, payRent))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	api.httpSrv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Pay rent"`)
}

func TestGzipResponse(t *testing.T) {
	api, _ := newMemoryAPI(t)
	for i := 0; i < 20; i++ {
		body := fmt.Sprintf(`{"title":"task %d","description":"a description long enough to pad the listing","status":"OPEN","category":"WORK","priority":"LOW","importance":"LOW","userId":1}`, i)
		require.Equal(t, http.StatusCreated, do(api, http.MethodPost, "/tasks", body).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/tasks?pageSize=50", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	api.httpSrv.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	gr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Contains(t, string(plain), `"total":20`)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	tests := []struct {
		name     string
		incoming string
		want     struct {
			reused bool
		}
	}{
		{name: "incoming id is kept", incoming: "req-123", want: struct{ reused bool }{true}},
		{name: "missing id is generated", incoming: "", want: struct{ reused bool }{false}},
		{name: "oversized id is replaced", incoming: strings.Repeat("x", 200), want: struct{ reused bool }{false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/id", nil)
			if tt.incoming != "" {
				req.Header.Set(requestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get(requestIDHeader)
			assert.Equal(t, got, w.Body.String())
			if tt.want.reused {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.Len(t, got, 36)
			}
		})
	}
}

func TestRecoveryAndAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))

	router := gin.New()
	router.Use(RequestID(), AccessLog(log), Recovery(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(requestIDHeader, "req-panic")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.Contains(t, logs.String(), `"msg":"panic recovered"`)
	assert.Contains(t, logs.String(), `"msg":"request handled"`)
	assert.Contains(t, logs.String(), `"status":500`)
	assert.Contains(t, logs.String(), `"request_id":"req-panic"`)
}
