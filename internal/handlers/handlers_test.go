package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/entropy-backend/internal/auth"
	"github.com/ArowuTest/entropy-backend/internal/collectors"
	"github.com/ArowuTest/entropy-backend/internal/fortuna"
	"github.com/ArowuTest/entropy-backend/internal/models"
)

type fakeStore struct {
	blob  string
	ok    bool
	saved []string
}

func (f *fakeStore) Load() (string, bool, error) { return f.blob, f.ok, nil }
func (f *fakeStore) Save(blob string) error {
	f.saved = append(f.saved, blob)
	return nil
}

func setup(t *testing.T) (*fortuna.Generator, *collectors.Collectors, *fakeStore, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.Init("handlers-test-secret")

	gen, err := fortuna.New(6)
	require.NoError(t, err)
	col := collectors.New(gen)
	require.NoError(t, col.Start())
	fs := &fakeStore{}
	Init(gen, col, fs)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/entropy", SubmitEntropy)
	api.POST("/entropy/pointer", PointerEntropy)
	api.POST("/entropy/keyboard", KeyboardEntropy)
	api.POST("/entropy/accelerometer", AccelerometerEntropy)
	api.GET("/status", Status)
	api.GET("/random", RequireAuth(), GetRandom)
	admin := api.Group("/admin", RequireAuth(models.RoleAdmin))
	admin.PUT("/paranoia", SetParanoia)
	admin.POST("/state/save", SaveState)
	return gen, col, fs, r
}

func do(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func token(t *testing.T, role models.AdminUserRole) string {
	t.Helper()
	tok, err := auth.GenerateJWT(uuid.NewString(), "tester", string(role))
	require.NoError(t, err)
	return tok
}

// seed pushes enough claimed entropy through the collectors to satisfy the
// default paranoia level; the collectors fold the pools into the key.
func seed(t *testing.T, col *collectors.Collectors) {
	t.Helper()
	require.NoError(t, col.Submit(fortuna.Text("known high-entropy seed material"), 512, "seed"))
}

func TestStatusEndpoint(t *testing.T) {
	_, _, _, r := setup(t)

	w := do(r, http.MethodGet, "/api/v1/status", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	m := decode(t, w)
	assert.Equal(t, false, m["ready"])
	assert.Equal(t, true, m["collectors"])
	assert.Greater(t, m["progress"].(float64), 0.0)
}

func TestPointerEntropyAccepted(t *testing.T) {
	gen, _, _, r := setup(t)
	before := gen.PoolStrength()

	w := do(r, http.MethodPost, "/api/v1/entropy/pointer", `{"x":120,"y":455}`, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, before+2, gen.PoolStrength())
}

func TestKeyboardAndAccelerometerEntropy(t *testing.T) {
	gen, _, _, r := setup(t)
	before := gen.PoolStrength()

	w := do(r, http.MethodPost, "/api/v1/entropy/keyboard", `{"code":13}`, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	w = do(r, http.MethodPost, "/api/v1/entropy/accelerometer", `{"values":[3,1,4,1]}`, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, before+4, gen.PoolStrength())
}

func TestGenericEntropySubmission(t *testing.T) {
	gen, _, _, r := setup(t)
	before := gen.PoolStrength()

	w := do(r, http.MethodPost, "/api/v1/entropy", `{"text":"ctx-string","bits":0,"source":"location"}`, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, before, gen.PoolStrength())

	w = do(r, http.MethodPost, "/api/v1/entropy", `{"words":[1,2,3],"bits":5}`, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, before+5, gen.PoolStrength())

	w = do(r, http.MethodPost, "/api/v1/entropy", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/entropy", `{"text":"x","bits":-3}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRandomRequiresAuth(t *testing.T) {
	_, _, _, r := setup(t)
	w := do(r, http.MethodGet, "/api/v1/random", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRandomNotReady(t *testing.T) {
	_, _, _, r := setup(t)
	w := do(r, http.MethodGet, "/api/v1/random", "", token(t, models.RoleOperator))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	m := decode(t, w)
	assert.Contains(t, m, "progress")
}

func TestRandomAfterSeeding(t *testing.T) {
	_, col, _, r := setup(t)
	seed(t, col)

	w := do(r, http.MethodGet, "/api/v1/random?words=8", "", token(t, models.RoleOperator))
	require.Equal(t, http.StatusOK, w.Code)
	m := decode(t, w)
	words := m["words"].([]any)
	assert.Len(t, words, 8)
	assert.Len(t, m["hex"].(string), 64)
}

func TestRandomValidatesParams(t *testing.T) {
	_, col, _, r := setup(t)
	seed(t, col)
	tok := token(t, models.RoleOperator)

	w := do(r, http.MethodGet, "/api/v1/random?words=abc", "", tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(r, http.MethodGet, "/api/v1/random?words=99999999", "", tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(r, http.MethodGet, "/api/v1/random?paranoia=11", "", tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetParanoiaIsAdminOnly(t *testing.T) {
	gen, _, _, r := setup(t)

	w := do(r, http.MethodPut, "/api/v1/admin/paranoia", `{"paranoia":2}`, token(t, models.RoleOperator))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPut, "/api/v1/admin/paranoia", `{"paranoia":2}`, token(t, models.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, gen.DefaultParanoia())

	w = do(r, http.MethodPut, "/api/v1/admin/paranoia", `{"paranoia":11}`, token(t, models.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveState(t *testing.T) {
	_, col, fs, r := setup(t)
	tok := token(t, models.RoleAdmin)

	w := do(r, http.MethodPost, "/api/v1/admin/state/save", "", tok)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, fs.saved)

	seed(t, col)
	w = do(r, http.MethodPost, "/api/v1/admin/state/save", "", tok)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fs.saved, 1)
	assert.Len(t, fs.saved[0], 32) // 128 bits, hex-encoded
}
