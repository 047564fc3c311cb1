package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tabprep/internal/domain"
	domprofile "github.com/kailas-cloud/tabprep/internal/domain/profile"
	healthuc "github.com/kailas-cloud/tabprep/internal/usecase/health"
	profileuc "github.com/kailas-cloud/tabprep/internal/usecase/profile"
)

type mockRepo struct {
	stored map[string]domprofile.Report
}

func newMockRepo() *mockRepo {
	return &mockRepo{stored: make(map[string]domprofile.Report)}
}

func (m *mockRepo) Put(_ context.Context, rep domprofile.Report) error {
	m.stored[rep.Dataset] = rep
	return nil
}

func (m *mockRepo) Get(_ context.Context, dataset string) (domprofile.Report, error) {
	rep, ok := m.stored[dataset]
	if !ok {
		return domprofile.Report{}, domain.ErrNotFound
	}
	return rep, nil
}

func (m *mockRepo) Delete(_ context.Context, dataset string) error {
	delete(m.stored, dataset)
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]string, error) {
	var names []string
	for name := range m.stored {
		names = append(names, name)
	}
	return names, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestServer(t *testing.T, repo *mockRepo, dataDir string) http.Handler {
	t.Helper()
	srv := NewServer(
		profileuc.New(repo, zap.NewNop()),
		healthuc.New(&mockPinger{}),
		dataDir,
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Register(r)
	return r
}

func writeDataFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write data file: %v", err)
	}
}

func TestValidateSpec_Valid(t *testing.T) {
	handler := newTestServer(t, newMockRepo(), t.TempDir())

	body := `{"columns":[{"name":"a","type":"number","key":true},{"name":"y","type":"bool","label":true}]}`
	req := httptest.NewRequest("POST", "/v1/specs/validate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp validateSpecResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Valid {
		t.Error("valid = false, want true")
	}
}

func TestValidateSpec_Invalid_422(t *testing.T) {
	handler := newTestServer(t, newMockRepo(), t.TempDir())

	body := `{"columns":[{"name":"a","type":"number","key":true},{"name":"b","type":"number","key":true}]}`
	req := httptest.NewRequest("POST", "/v1/specs/validate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rr.Code, rr.Body.String())
	}
	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", errResp.Code, codeValidationFailed)
	}
}

func TestValidateSpec_MalformedBody_400(t *testing.T) {
	handler := newTestServer(t, newMockRepo(), t.TempDir())

	req := httptest.NewRequest("POST", "/v1/specs/validate", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestProfile_CSV(t *testing.T) {
	repo := newMockRepo()
	dataDir := t.TempDir()
	writeDataFile(t, dataDir, "events.csv", "1,2\n2,4\n3,6\n4,8\n")
	handler := newTestServer(t, repo, dataDir)

	body := `{
		"file": "events.csv",
		"format": "csv",
		"columns": [{"name":"a","type":"number"},{"name":"b","type":"number"}]
	}`
	req := httptest.NewRequest("POST", "/v1/datasets/events/profile", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var rep domprofile.Report
	if err := json.NewDecoder(rr.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Rows != 4 || rep.Columns != 2 {
		t.Errorf("dims = (%d, %d), want (4, 2)", rep.Rows, rep.Columns)
	}
	if len(rep.Correlated) != 1 {
		t.Errorf("Correlated = %v, want one pair", rep.Correlated)
	}
	if _, ok := repo.stored["events"]; !ok {
		t.Error("report not persisted")
	}
}

func TestProfile_CSVWithoutColumns_400(t *testing.T) {
	dataDir := t.TempDir()
	writeDataFile(t, dataDir, "events.csv", "1\n")
	handler := newTestServer(t, newMockRepo(), dataDir)

	body := `{"file": "events.csv", "format": "csv"}`
	req := httptest.NewRequest("POST", "/v1/datasets/events/profile", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rr.Code, rr.Body.String())
	}
}

func TestProfile_MissingFile_400(t *testing.T) {
	handler := newTestServer(t, newMockRepo(), t.TempDir())

	req := httptest.NewRequest("POST", "/v1/datasets/events/profile", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestProfile_PathTraversal_400(t *testing.T) {
	handler := newTestServer(t, newMockRepo(), t.TempDir())

	body := `{"file": "../../etc/passwd", "format": "csv", "columns": [{"name":"a","type":"string"}]}`
	req := httptest.NewRequest("POST", "/v1/datasets/events/profile", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// Clean("/"+file) flattens the traversal; the request must not reach
	// outside the data dir either way.
	if rr.Code == http.StatusOK {
		t.Fatalf("status = 200, want rejection: %s", rr.Body.String())
	}
}

func TestProfile_UnknownFormat_400(t *testing.T) {
	dataDir := t.TempDir()
	writeDataFile(t, dataDir, "events.xls", "x")
	handler := newTestServer(t, newMockRepo(), dataDir)

	body := `{"file": "events.xls", "format": "xls"}`
	req := httptest.NewRequest("POST", "/v1/datasets/events/profile", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestGetReport(t *testing.T) {
	repo := newMockRepo()
	repo.stored["churn"] = domprofile.Report{Dataset: "churn", Rows: 10, Columns: 3}
	handler := newTestServer(t, repo, t.TempDir())

	req := httptest.NewRequest("GET", "/v1/datasets/churn/report", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var rep domprofile.Report
	if err := json.NewDecoder(rr.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Rows != 10 {
		t.Errorf("Rows = %d, want 10", rep.Rows)
	}
}

func TestGetReport_NotFound_404(t *testing.T) {
	handler := newTestServer(t, newMockRepo(), t.TempDir())

	req := httptest.NewRequest("GET", "/v1/datasets/missing/report", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != codeNotFound {
		t.Errorf("code = %q, want %q", errResp.Code, codeNotFound)
	}
}

func TestDeleteReport_204(t *testing.T) {
	repo := newMockRepo()
	repo.stored["churn"] = domprofile.Report{Dataset: "churn"}
	handler := newTestServer(t, repo, t.TempDir())

	req := httptest.NewRequest("DELETE", "/v1/datasets/churn/report", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if _, ok := repo.stored["churn"]; ok {
		t.Error("report still stored after delete")
	}
}

func TestListDatasets(t *testing.T) {
	repo := newMockRepo()
	repo.stored["churn"] = domprofile.Report{Dataset: "churn"}
	handler := newTestServer(t, repo, t.TempDir())

	req := httptest.NewRequest("GET", "/v1/datasets", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp listDatasetsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Datasets) != 1 || resp.Datasets[0] != "churn" {
		t.Errorf("Datasets = %v, want [churn]", resp.Datasets)
	}
}

func TestListDatasets_EmptyIsArray(t *testing.T) {
	handler := newTestServer(t, newMockRepo(), t.TempDir())

	req := httptest.NewRequest("GET", "/v1/datasets", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !strings.Contains(rr.Body.String(), `"datasets":[]`) {
		t.Errorf("body = %s, want empty array", rr.Body.String())
	}
}

func TestHealth_OK(t *testing.T) {
	handler := newTestServer(t, newMockRepo(), t.TempDir())

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("health = %+v, want ok", resp)
	}
}
