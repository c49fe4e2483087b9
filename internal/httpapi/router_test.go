package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"readq/internal/config"
	"readq/internal/httpapi"
	"readq/internal/logging"
	"readq/internal/readinglist"
	"readq/internal/testsupport"
)

type envelope struct {
	Success bool                 `json:"success"`
	Data    json.RawMessage      `json:"data"`
	Error   *httpapi.ErrorDetail `json:"error"`
}

func newRouter(t *testing.T, opts ...testsupport.ConfigOption) (*gin.Engine, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	svc := readinglist.New(store, cfg)
	return httpapi.NewRouter(cfg, svc, logging.NewNop()), cfg
}

func do(t *testing.T, r http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
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
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, env
}

func decode(t *testing.T, raw json.RawMessage, dst any) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
}

type placementBody struct {
	Note struct {
		ID       int64 `json:"id"`
		Position *int  `json:"position"`
	} `json:"note"`
	Placement readinglist.Placement `json:"placement"`
}

func TestHealthIsPublic(t *testing.T) {
	r, _ := newRouter(t, testsupport.WithAPIToken("secret"))

	rec, env := do(t, r, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("health = %d %+v", rec.Code, env)
	}
	var health httpapi.HealthResponse
	decode(t, env.Data, &health)
	if health.Status != "healthy" || !health.Dense {
		t.Fatalf("unexpected health %+v", health)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id header")
	}
}

func TestBearerAuth(t *testing.T) {
	r, _ := newRouter(t, testsupport.WithAPIToken("secret"))

	rec, env := do(t, r, http.MethodGet, "/api/v1/queue", "")
	if rec.Code != http.StatusUnauthorized || env.Error == nil || env.Error.Code != httpapi.ErrCodeUnauthorized {
		t.Fatalf("missing token = %d %+v", rec.Code, env)
	}
	rec, _ = do(t, r, http.MethodGet, "/api/v1/queue", "", "Authorization", "Bearer wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token = %d", rec.Code)
	}
	rec, env = do(t, r, http.MethodGet, "/api/v1/queue", "", "Authorization", "Bearer secret")
	if rec.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Fatalf("valid token = %d %s", rec.Code, env.Data)
	}
}

func TestRateLimit(t *testing.T) {
	r, _ := newRouter(t, func(cfg *config.Config) {
		cfg.Server.RequestsPerSecond = 0.001
		cfg.Server.Burst = 2
	})

	for i := 0; i < 2; i++ {
		if rec, _ := do(t, r, http.MethodGet, "/api/v1/queue", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, rec.Code)
		}
	}
	rec, env := do(t, r, http.MethodGet, "/api/v1/queue", "")
	if rec.Code != http.StatusTooManyRequests || env.Error.Code != httpapi.ErrCodeRateLimited {
		t.Fatalf("expected rate limit, got %d %+v", rec.Code, env)
	}
}

func TestNoteLifecycle(t *testing.T) {
	r, _ := newRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/notes", `{"title":"first","tags":["go"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %+v", rec.Code, env.Error)
	}
	var first placementBody
	decode(t, env.Data, &first)
	if first.Placement != (readinglist.Placement{Index: 0, Total: 1}) {
		t.Fatalf("first placement = %+v", first.Placement)
	}

	_, env = do(t, r, http.MethodPost, "/api/v1/notes", `{"title":"second","policy":"head"}`)
	var second placementBody
	decode(t, env.Data, &second)
	if second.Placement != (readinglist.Placement{Index: 0, Total: 2}) {
		t.Fatalf("second placement = %+v", second.Placement)
	}

	rec, env = do(t, r, http.MethodPost, "/api/v1/notes", `{"title":" "}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != httpapi.ErrCodeInvalidInput {
		t.Fatalf("empty note = %d %+v", rec.Code, env.Error)
	}
	rec, _ = do(t, r, http.MethodPost, "/api/v1/notes", `{"title":"x","policy":"sideways"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad policy = %d", rec.Code)
	}

	path := "/api/v1/notes/" + itoa(second.Note.ID)
	rec, env = do(t, r, http.MethodPost, path+"/consume", `{"policy":"end"}`)
	var placement readinglist.Placement
	decode(t, env.Data, &placement)
	if rec.Code != http.StatusOK || placement != (readinglist.Placement{Index: 1, Total: 2}) {
		t.Fatalf("consume = %d %+v", rec.Code, placement)
	}

	_, env = do(t, r, http.MethodGet, "/api/v1/queue", "")
	var queue []struct {
		ID int64 `json:"id"`
	}
	decode(t, env.Data, &queue)
	if len(queue) != 2 || queue[0].ID != first.Note.ID || queue[1].ID != second.Note.ID {
		t.Fatalf("queue = %+v", queue)
	}

	rec, env = do(t, r, http.MethodPut, "/api/v1/queue/order", `{"ids":[`+itoa(first.Note.ID)+`]}`)
	if rec.Code != http.StatusConflict || env.Error.Code != httpapi.ErrCodeConflict {
		t.Fatalf("partial reorder = %d %+v", rec.Code, env.Error)
	}

	rec, _ = do(t, r, http.MethodDelete, path+"/queue", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dequeue = %d", rec.Code)
	}
	rec, _ = do(t, r, http.MethodDelete, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec, env = do(t, r, http.MethodGet, path, "")
	if rec.Code != http.StatusNotFound || env.Error.Code != httpapi.ErrCodeNotFound {
		t.Fatalf("get deleted = %d %+v", rec.Code, env.Error)
	}

	rec, _ = do(t, r, http.MethodGet, "/api/v1/notes/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id = %d", rec.Code)
	}
}

func TestReviewsAndScores(t *testing.T) {
	r, _ := newRouter(t)

	_, env := do(t, r, http.MethodPost, "/api/v1/notes", `{"title":"scored"}`)
	var created placementBody
	decode(t, env.Data, &created)
	path := "/api/v1/notes/" + itoa(created.Note.ID)

	for _, outcome := range []string{"good", "easy", "hard", "fail"} {
		rec, env := do(t, r, http.MethodPost, path+"/reviews", `{"outcome":"`+outcome+`","duration_ms":3000}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("log %s = %d %+v", outcome, rec.Code, env.Error)
		}
	}
	rec, env := do(t, r, http.MethodPost, path+"/reviews", `{"outcome":"meh"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad outcome = %d %+v", rec.Code, env.Error)
	}
	rec, _ = do(t, r, http.MethodPost, path+"/reviews", `{"duration_ms":10}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing outcome = %d", rec.Code)
	}

	_, env = do(t, r, http.MethodGet, path+"/reviews", "")
	var reviews []map[string]any
	decode(t, env.Data, &reviews)
	if len(reviews) != 4 {
		t.Fatalf("reviews = %d", len(reviews))
	}

	rec, env = do(t, r, http.MethodGet, path+"/score", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("score = %d", rec.Code)
	}
	var report struct {
		Score *struct {
			Composite int `json:"composite"`
		} `json:"score"`
		RetentionDelta string `json:"retention_delta"`
	}
	decode(t, env.Data, &report)
	if report.Score == nil || report.RetentionDelta != "+0.00" {
		t.Fatalf("report = %s", env.Data)
	}

	rec, env = do(t, r, http.MethodGet, "/api/v1/scores/lowest?metric=retention&limit=5", "")
	var ranked []map[string]any
	decode(t, env.Data, &ranked)
	if rec.Code != http.StatusOK || len(ranked) != 1 || ranked[0]["title"] != "scored" {
		t.Fatalf("lowest = %d %s", rec.Code, env.Data)
	}
	rec, _ = do(t, r, http.MethodGet, "/api/v1/scores/lowest?metric=speed", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad metric = %d", rec.Code)
	}
}

func TestPages(t *testing.T) {
	r, _ := newRouter(t)

	_, env := do(t, r, http.MethodPost, "/api/v1/notes", `{"title":"book","source":"book.pdf"}`)
	var created placementBody
	decode(t, env.Data, &created)
	path := "/api/v1/notes/" + itoa(created.Note.ID) + "/pages"

	if rec, _ := do(t, r, http.MethodPut, path+"/4", `{"pages_total":12}`); rec.Code != http.StatusOK {
		t.Fatalf("mark read = %d", rec.Code)
	}
	rec, env := do(t, r, http.MethodGet, path, "")
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), `"total":12`) {
		t.Fatalf("pages = %d %s", rec.Code, env.Data)
	}
	if rec, _ := do(t, r, http.MethodPut, path+"/0", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("page zero = %d", rec.Code)
	}
	if rec, _ := do(t, r, http.MethodPut, "/api/v1/notes/999/pages/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown note = %d", rec.Code)
	}
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
