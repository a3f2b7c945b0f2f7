package entityadmin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type apiEnvelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func TestAPIList_ProxiesBackendPage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "10" || q.Get("search") != "gun" {
			t.Errorf("query = %v, want page=2 limit=10 search=gun", q)
		}
		writeJSON(w, http.StatusOK, pageBody(11, gradeRecord(11, "PG")))
	}))
	defer backend.Close()

	r := newEntityRouter(t, "grade", backend.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/grade?page=2&search=gun", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != http.StatusOK || env.Message != "success" {
		t.Errorf("envelope = %d %q, want 200 success", env.Code, env.Message)
	}

	var page struct {
		Count   int              `json:"count"`
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if page.Count != 11 || len(page.Results) != 1 {
		t.Errorf("page = count %d with %d results, want 11 with 1", page.Count, len(page.Results))
	}
	if got := page.Results[0]["grade_name"]; got != "PG" {
		t.Errorf("grade_name = %v, want PG", got)
	}
}

func TestAPIList_InvalidQuery(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Errorf("invalid query reached the backend: %s", req.URL.RawQuery)
	}))
	defer backend.Close()

	r := newEntityRouter(t, "grade", backend.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/grade?page=-1", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Message != "validation error" {
		t.Errorf("message = %q, want validation error", env.Message)
	}
	if got := env.Errors["page"]; got != "Must be 1 or more" {
		t.Errorf("errors[page] = %q, want Must be 1 or more", got)
	}
}

func TestAPIList_BackendFault(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	r := newEntityRouter(t, "grade", backend.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/grade", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	env := decodeEnvelope(t, w)
	if !strings.Contains(env.Message, "catalog backend") {
		t.Errorf("message = %q, want the backend fault surfaced", env.Message)
	}
}

func TestAPIGet_ReturnsRecord(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/grade/5/" {
			t.Errorf("path = %q, want /grade/5/", req.URL.Path)
		}
		record, _ := json.Marshal(gradeRecord(5, "HG"))
		writeJSON(w, http.StatusOK, string(record))
	}))
	defer backend.Close()

	r := newEntityRouter(t, "grade", backend.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/grade/5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	env := decodeEnvelope(t, w)

	var record map[string]any
	if err := json.Unmarshal(env.Data, &record); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got := record["grade_name"]; got != "HG" {
		t.Errorf("grade_name = %v, want HG", got)
	}
}

func TestAPIGet_NotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"detail":"Not found."}`)
	}))
	defer backend.Close()

	r := newEntityRouter(t, "grade", backend.URL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/grade/99", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "not found" {
		t.Errorf("message = %q, want not found", env.Message)
	}
}
