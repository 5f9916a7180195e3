// internal/handler/handler_test.go
//
// Общие помощники для HTTP-тестов: роутер поверх in-memory хранилища.
package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance-tracker/internal/analytics"
	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/storage/memory"

	"github.com/gin-gonic/gin"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-secret",
		JWTExpiresIn:    time.Hour,
		DefaultPageSize: 50,
		MaxPageSize:     100,
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Storage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStorage()
	cfg := testConfig()
	tokens := auth.NewTokenService(cfg)
	engine := analytics.NewEngine(store)
	return NewRouter(cfg, store, tokens, engine), store
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// registerAndLogin регистрирует пользователя и возвращает его токен.
func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"email":    email,
		"password": "s3cret-pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    email,
		"password": "s3cret-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeJSON(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Token
}

// createCategory создаёт категорию и возвращает её id.
func createCategory(t *testing.T, router *gin.Engine, name string) int64 {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/categories", "", gin.H{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category %s: status %d, body %s", name, w.Code, w.Body.String())
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	decodeJSON(t, w, &resp)
	return resp.ID
}
