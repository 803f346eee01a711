package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"healthpulse/events"
	"healthpulse/logger"
	"healthpulse/orchestrator"
	"healthpulse/types"
)

func f64(v float64) *float64 { return &v }

type fakeLabRepo struct {
	latest *types.LabResult
	saved  *types.LabResult
}

func (f *fakeLabRepo) GetLatest(ctx context.Context, userID string) (*types.LabResult, error) {
	return f.latest, nil
}

func (f *fakeLabRepo) SaveLatest(ctx context.Context, result *types.LabResult) (*types.LabResult, error) {
	f.saved = result
	f.latest = result
	return result, nil
}

type fakeRecRepo struct {
	recs []types.ArticleRecommendation
}

func (f *fakeRecRepo) Replace(ctx context.Context, userID string, recs []types.ArticleRecommendation) error {
	f.recs = recs
	return nil
}

func (f *fakeRecRepo) ListByUser(ctx context.Context, userID string) ([]types.ArticleRecommendation, error) {
	return f.recs, nil
}

type fakeRunner struct {
	ran chan string
}

func (f *fakeRunner) Run(ctx context.Context, userID string) (types.RunResult, error) {
	if f.ran != nil {
		f.ran <- userID
	}
	return types.RunResult{Success: true}, nil
}

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) RecognizeText(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

type fakePublisher struct {
	events []events.LabResultUpdated
}

func (f *fakePublisher) PublishLabResultUpdated(event events.LabResultUpdated) error {
	f.events = append(f.events, event)
	return nil
}

type testEnv struct {
	labs      *fakeLabRepo
	recs      *fakeRecRepo
	runner    *fakeRunner
	publisher *fakePublisher
	router    *gin.Engine
}

func newTestEnv(t *testing.T, ocrSvc OCRService) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		labs:      &fakeLabRepo{},
		recs:      &fakeRecRepo{},
		runner:    &fakeRunner{ran: make(chan string, 1)},
		publisher: &fakePublisher{},
	}
	srv := NewServer(env.labs, env.recs, nil, ocrSvc, env.publisher,
		env.runner, orchestrator.NewManager(), logger.NewNop())
	env.router = NewRouter(srv)
	return env
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestManualLabStoresScoredSnapshot(t *testing.T) {
	env := newTestEnv(t, nil)

	w := doJSON(t, env.router, http.MethodPost, "/api/lab/manual", ManualLabRequest{
		UserID: "user-1",
		Measurement: types.LabMeasurement{
			GlucoseFasting: f64(130),
			HbA1c:          f64(7.0),
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp LabResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// glucose 130 contributes (130-100)/26*50 ~ 57.7, hba1c 7.0 contributes
	// (7.0-5.7)/0.8*50 ~ 81.25, mean rounds to 69
	if resp.Diabetes.Percentage != 69 {
		t.Errorf("diabetes percentage = %d, want 69", resp.Diabetes.Percentage)
	}
	if resp.Diabetes.Level != types.RiskTinggi {
		t.Errorf("diabetes level = %s, want tinggi", resp.Diabetes.Level)
	}

	if env.labs.saved == nil {
		t.Fatal("snapshot was not saved")
	}
	if env.labs.saved.RiskLevel != types.RiskTinggi {
		t.Errorf("persisted level = %s, want tinggi", env.labs.saved.RiskLevel)
	}
	if len(env.publisher.events) != 1 || env.publisher.events[0].UserID != "user-1" {
		t.Errorf("expected one published event for user-1, got %+v", env.publisher.events)
	}
}

func TestManualLabRejectsEmptyMeasurement(t *testing.T) {
	env := newTestEnv(t, nil)
	w := doJSON(t, env.router, http.MethodPost, "/api/lab/manual", ManualLabRequest{
		UserID: "user-1",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestManualLabRejectsNegativeValue(t *testing.T) {
	env := newTestEnv(t, nil)
	w := doJSON(t, env.router, http.MethodPost, "/api/lab/manual", ManualLabRequest{
		UserID:      "user-1",
		Measurement: types.LabMeasurement{HDL: f64(-5)},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "hdl") {
		t.Errorf("error should name the field: %s", w.Body.String())
	}
}

func TestLabLatestNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	w := doJSON(t, env.router, http.MethodGet, "/api/lab/latest?user_id=user-1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLabPriorityDefaultsToBalanced(t *testing.T) {
	env := newTestEnv(t, nil)
	w := doJSON(t, env.router, http.MethodGet, "/api/lab/priority?user_id=user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var pr types.HealthPriority
	if err := json.Unmarshal(w.Body.Bytes(), &pr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pr.Focus != types.FocusBalanced {
		t.Errorf("focus = %s, want balanced", pr.Focus)
	}
}

func TestLabUploadRequiresOCR(t *testing.T) {
	env := newTestEnv(t, nil)
	w := doJSON(t, env.router, http.MethodPost, "/api/lab/upload", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestLabUploadExtractsAndStores(t *testing.T) {
	ocrText := "Glukosa Puasa: 130 mg/dL\nHbA1c: 7.0 %"
	env := newTestEnv(t, &fakeOCR{text: ocrText})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("user_id", "user-1"); err != nil {
		t.Fatal(err)
	}
	fw, err := mw.CreateFormFile("image", "report.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("fake image bytes")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/lab/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if env.labs.saved == nil {
		t.Fatal("snapshot was not saved")
	}
	if env.labs.saved.GlucoseFasting == nil || *env.labs.saved.GlucoseFasting != 130 {
		t.Errorf("glucose = %v, want 130", env.labs.saved.GlucoseFasting)
	}
	if env.labs.saved.RawOCRText != ocrText {
		t.Error("raw OCR text was not persisted")
	}
}

func TestLabUploadRejectsUnreadableReport(t *testing.T) {
	env := newTestEnv(t, &fakeOCR{text: "nothing medical in here"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("user_id", "user-1")
	fw, _ := mw.CreateFormFile("image", "report.jpg")
	_, _ = fw.Write([]byte("fake image bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/lab/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestArticlesRefreshStartsRun(t *testing.T) {
	env := newTestEnv(t, nil)

	w := doJSON(t, env.router, http.MethodPost, "/api/articles/refresh?user_id=user-1", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	if got := <-env.runner.ran; got != "user-1" {
		t.Errorf("run user = %q, want user-1", got)
	}
}

func TestArticlesRefreshRequiresUserID(t *testing.T) {
	env := newTestEnv(t, nil)
	w := doJSON(t, env.router, http.MethodPost, "/api/articles/refresh", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestArticlesStatusAndRecommendations(t *testing.T) {
	env := newTestEnv(t, nil)
	env.recs.recs = []types.ArticleRecommendation{{UserID: "user-1", PriorityScore: 0.8}}

	w := doJSON(t, env.router, http.MethodGet, "/api/articles/status", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status endpoint = %d, want 200", w.Code)
	}
	var st orchestrator.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.State != orchestrator.StateIdle {
		t.Errorf("state = %s, want idle", st.State)
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/articles/recommendations?user_id=user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recommendations = %d, want 200", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	w := doJSON(t, env.router, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
