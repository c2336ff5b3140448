package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esdsl/internal/config"
	domquery "github.com/kailas-cloud/esdsl/internal/domain/query"
	healthuc "github.com/kailas-cloud/esdsl/internal/usecase/health"
	queryuc "github.com/kailas-cloud/esdsl/internal/usecase/query"
	schemauc "github.com/kailas-cloud/esdsl/internal/usecase/schema"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	catalog, err := schemauc.Compile([]config.SchemaConfig{
		{
			Name: "MyDoc",
			Fields: config.Fields{
				{Name: "title", Type: "string", Options: map[string]any{"index": "not_analyzed"}},
				{Name: "name", Type: "string"},
				{Name: "inner", Type: "object", Properties: config.Fields{{Name: "old_field", Type: "string"}}},
			},
		},
		{
			Name: "MySubDoc", Extends: "MyDoc", DocType: "my_custom_doc",
			Fields: config.Fields{{Name: "created_at", Type: "date"}},
		},
	})
	if err != nil {
		t.Fatalf("compile catalog: %v", err)
	}
	queries := queryuc.New(domquery.NewRegistry())
	srv := NewServer(catalog, queries, healthuc.New(catalog, queries), zap.NewNop()).WithMaxBodyBytes(256)

	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	rr := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestMetrics(t *testing.T) {
	rr := do(t, newTestRouter(t), http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestGetMapping_DeclarationOrder(t *testing.T) {
	rr := do(t, newTestRouter(t), http.MethodGet, "/mappings/MySubDoc", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	want := `{"my_custom_doc":{"properties":{` +
		`"title":{"type":"string","index":"not_analyzed"},` +
		`"name":{"type":"string"},` +
		`"inner":{"type":"object","properties":{"old_field":{"type":"string"}}},` +
		`"created_at":{"type":"date"}}}}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Errorf("body =\n%s\nwant\n%s", got, want)
	}
}

func TestGetMapping_ByDocType(t *testing.T) {
	rr := do(t, newTestRouter(t), http.MethodGet, "/mappings/my_doc", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if _, ok := decodeBody(t, rr)["my_doc"]; !ok {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestGetMapping_NotFound(t *testing.T) {
	rr := do(t, newTestRouter(t), http.MethodGet, "/mappings/Nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if code := decodeBody(t, rr)["code"]; code != CodeNotFound {
		t.Errorf("code = %v", code)
	}
}

func TestListMappings(t *testing.T) {
	rr := do(t, newTestRouter(t), http.MethodGet, "/mappings", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var items []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if _, ok := items[0]["my_doc"]; !ok {
		t.Errorf("first = %v", items[0])
	}
	if _, ok := items[1]["my_custom_doc"]; !ok {
		t.Errorf("second = %v", items[1])
	}
}

func TestCreateDocument(t *testing.T) {
	h := newTestRouter(t)
	rr := do(t, h, http.MethodPost, "/documents/MyDoc", `{"title":"t","inner":{"old_field":"x"},"empty":{}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	inner, ok := body["inner"].(map[string]any)
	if body["title"] != "t" || !ok || inner["old_field"] != "x" {
		t.Errorf("body = %v", body)
	}

	if rr := do(t, h, http.MethodPost, "/documents/Nope", `{}`); rr.Code != http.StatusNotFound {
		t.Errorf("unknown type status = %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/documents/MyDoc", `[1,2]`); rr.Code != http.StatusBadRequest {
		t.Errorf("array body status = %d", rr.Code)
	}
}

func TestCompileQuery(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
		wantBody string
	}{
		{
			name:     "leaf",
			body:     `{"query":{"match":{"title":"python"}}}`,
			wantCode: http.StatusOK,
			wantBody: `{"query":{"match":{"title":"python"}}}`,
		},
		{
			name:     "bool with single clause entry",
			body:     `{"query":{"bool":{"must":{"match":{"f":1}}}}}`,
			wantCode: http.StatusOK,
			wantBody: `{"query":{"bool":{"must":[{"match":{"f":1}}]}}}`,
		},
		{name: "unknown kind", body: `{"query":{"not_there":{}}}`, wantCode: http.StatusBadRequest, wantErr: CodeUnknownQueryKind},
		{name: "two keys", body: `{"query":{"match":{},"term":{}}}`, wantCode: http.StatusBadRequest, wantErr: CodeAmbiguous},
		{name: "missing query", body: `{}`, wantCode: http.StatusBadRequest, wantErr: CodeAmbiguous},
		{name: "non-object body", body: `{"query":{"match":5}}`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidQuery},
		{name: "malformed json", body: `{"query":`, wantCode: http.StatusBadRequest, wantErr: CodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/queries/compile", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
			}
			if tt.wantBody != "" {
				if got := strings.TrimSpace(rr.Body.String()); got != tt.wantBody {
					t.Errorf("body = %s, want %s", got, tt.wantBody)
				}
				return
			}
			if code := decodeBody(t, rr)["code"]; code != tt.wantErr {
				t.Errorf("code = %v, want %s", code, tt.wantErr)
			}
		})
	}
}

func TestCombineQueries(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "and",
			body:     `{"op":"and","left":{"match":{"f":1}},"right":{"match":{"f":2}}}`,
			wantCode: http.StatusOK,
			wantBody: `{"query":{"bool":{"must":[{"match":{"f":1}},{"match":{"f":2}}]}}}`,
		},
		{
			name:     "or with match_all",
			body:     `{"op":"or","left":{"match":{"f":1}},"right":{"match_all":{}}}`,
			wantCode: http.StatusOK,
			wantBody: `{"query":{"match_all":{}}}`,
		},
		{
			name:     "not ignores right",
			body:     `{"op":"not","left":{"match":{"f":1}},"right":{"nope":{}}}`,
			wantCode: http.StatusOK,
			wantBody: `{"query":{"bool":{"must_not":[{"match":{"f":1}}]}}}`,
		},
		{name: "unknown op", body: `{"op":"xor","left":{"match":{}},"right":{"match":{}}}`, wantCode: http.StatusBadRequest},
		{name: "bad operand", body: `{"op":"add","left":{"nope":{}},"right":{"match":{}}}`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/queries/combine", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
			}
			if tt.wantBody != "" {
				if got := strings.TrimSpace(rr.Body.String()); got != tt.wantBody {
					t.Errorf("body = %s, want %s", got, tt.wantBody)
				}
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	big := `{"query":{"match":{"f":"` + strings.Repeat("x", 512) + `"}}}`
	rr := do(t, newTestRouter(t), http.MethodPost, "/queries/compile", big)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	rr := do(t, newTestRouter(t), http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d", rr.Code)
	}
}
