package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/doc-extractor/constants"
	"github.com/joseph-ayodele/doc-extractor/internal/common"
	"github.com/joseph-ayodele/doc-extractor/internal/extract"
	"github.com/joseph-ayodele/doc-extractor/internal/fetch"
	"github.com/joseph-ayodele/doc-extractor/internal/links"
)

type stubStrategy struct {
	name   string
	method constants.Method
	fn     func(ctx context.Context) (string, error)
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Extract(ctx context.Context, _ *extract.Document) (string, constants.Method, error) {
	text, err := s.fn(ctx)
	return text, s.method, err
}

func okStrategy(name string, method constants.Method, text string) stubStrategy {
	return stubStrategy{name: name, method: method, fn: func(context.Context) (string, error) {
		return text, nil
	}}
}

func testConfig() common.Config {
	return common.Config{
		Server: common.ServerConfig{
			Addr:           ":0",
			APIKey:         "secret",
			MaxUploadBytes: 1 << 20,
			MaxConcurrent:  2,
		},
		Limits: common.LimitsConfig{
			MaxPages:       50,
			ProcessTimeout: 2 * time.Second,
		},
	}
}

func newTestHandler(t *testing.T, cfg common.Config, structural stubStrategy, ocr stubStrategy) http.Handler {
	t.Helper()
	engine, err := extract.NewEngine(extract.StrategySet{
		StructuralPDF:     structural,
		OCR:               ocr,
		OfficeNative:      okStrategy("structural-office", constants.MethodStructuralOffice, "office"),
		ConvertStructural: okStrategy("convert-structural", constants.MethodStructuralPDF, "converted structural text"),
		ConvertOCR:        okStrategy("convert-ocr", constants.MethodOCR, "converted ocr"),
	}, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return New(cfg, engine, fetch.New(fetch.Config{}, nil), links.New(nil), nil).Routes()
}

func multipartBody(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func doExtract(t *testing.T, handler http.Handler, filename string, data []byte, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, data)
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz_NoAuthRequired(t *testing.T) {
	handler := newTestHandler(t, testConfig(),
		okStrategy("structural-pdf", constants.MethodStructuralPDF, "text"),
		okStrategy("ocr", constants.MethodOCR, "ocr"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", rec.Code)
	}
}

func TestExtract_RequiresAPIKey(t *testing.T) {
	handler := newTestHandler(t, testConfig(),
		okStrategy("structural-pdf", constants.MethodStructuralPDF, "text"),
		okStrategy("ocr", constants.MethodOCR, "ocr"))

	rec := doExtract(t, handler, "cv.pdf", []byte("%PDF-1.4"), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key = %d, want 401", rec.Code)
	}

	rec = doExtract(t, handler, "cv.pdf", []byte("%PDF-1.4"), "wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key = %d, want 401", rec.Code)
	}
}

func TestExtract_HappyPath(t *testing.T) {
	// WHAT: A PDF upload returns text, method, kind, and the link map.
	struct2 := okStrategy("structural-pdf", constants.MethodStructuralPDF,
		"A perfectly reasonable document body, see https://github.com/someone/tool.")
	handler := newTestHandler(t, testConfig(), struct2,
		okStrategy("ocr", constants.MethodOCR, "ocr"))

	rec := doExtract(t, handler, "cv.pdf", []byte("%PDF-1.4 fake"), "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID       string              `json:"id"`
		Filename string              `json:"filename"`
		Kind     string              `json:"kind"`
		Method   string              `json:"method"`
		Text     string              `json:"text"`
		Links    map[string][]string `json:"links"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("response has no id")
	}
	if resp.Filename != "cv.pdf" || resp.Kind != "PDF" || resp.Method != "structural-pdf" {
		t.Errorf("response = %+v", resp)
	}
	if !strings.Contains(resp.Text, "reasonable document") {
		t.Errorf("text = %q", resp.Text)
	}
	if got := resp.Links[constants.CategoryGitHub]; len(got) != 1 {
		t.Errorf("github links = %v, want one entry", got)
	}
	for _, c := range constants.LinkCategories {
		if _, ok := resp.Links[c]; !ok {
			t.Errorf("links missing category %s", c)
		}
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	handler := newTestHandler(t, testConfig(),
		okStrategy("structural-pdf", constants.MethodStructuralPDF, "text"),
		okStrategy("ocr", constants.MethodOCR, "ocr"))

	rec := doExtract(t, handler, "notes.txt", []byte("just some text"), "secret")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestExtract_ExhaustionReportsAttempts(t *testing.T) {
	// WHAT: Total strategy failure is 422 with ordered diagnostics.
	fail := func(name string, method constants.Method, reason string) stubStrategy {
		return stubStrategy{name: name, method: method, fn: func(context.Context) (string, error) {
			return "", errors.New(reason)
		}}
	}
	handler := newTestHandler(t, testConfig(),
		fail("structural-pdf", constants.MethodStructuralPDF, "xref broken"),
		fail("ocr", constants.MethodOCR, "no text found"))

	rec := doExtract(t, handler, "cv.pdf", []byte("%PDF-1.4"), "secret")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Code     string `json:"code"`
			Attempts []struct {
				Strategy string `json:"strategy"`
				Reason   string `json:"reason"`
			} `json:"attempts"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Error.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(resp.Error.Attempts))
	}
	if resp.Error.Attempts[0].Strategy != "structural-pdf" || resp.Error.Attempts[1].Strategy != "ocr" {
		t.Errorf("attempt order = %+v", resp.Error.Attempts)
	}
}

func TestExtract_Timeout(t *testing.T) {
	// WHAT: A strategy that outlives the processing deadline yields 504.
	cfg := testConfig()
	cfg.Limits.ProcessTimeout = 20 * time.Millisecond
	blocking := stubStrategy{name: "structural-pdf", method: constants.MethodStructuralPDF,
		fn: func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}}
	handler := newTestHandler(t, cfg, blocking,
		okStrategy("ocr", constants.MethodOCR, "ocr"))

	rec := doExtract(t, handler, "cv.pdf", []byte("%PDF-1.4"), "secret")
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504; body %s", rec.Code, rec.Body.String())
	}
}

func TestExtract_UploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxUploadBytes = 64
	handler := newTestHandler(t, cfg,
		okStrategy("structural-pdf", constants.MethodStructuralPDF, "text"),
		okStrategy("ocr", constants.MethodOCR, "ocr"))

	rec := doExtract(t, handler, "cv.pdf", bytes.Repeat([]byte("%PDF-1.4 pad "), 100), "secret")
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestExtract_ByURL(t *testing.T) {
	// WHAT: A url form value downloads the document instead of reading an
	// uploaded part.
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 remote"))
	}))
	defer origin.Close()

	handler := newTestHandler(t, testConfig(),
		okStrategy("structural-pdf", constants.MethodStructuralPDF, "remote document text body"),
		okStrategy("ocr", constants.MethodOCR, "ocr"))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("url", origin.URL+"/files/cv.pdf"); err != nil {
		t.Fatalf("write url field: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Filename != "cv.pdf" {
		t.Errorf("filename = %q, want cv.pdf", resp.Filename)
	}
}

func TestExtract_NeitherFileNorURL(t *testing.T) {
	handler := newTestHandler(t, testConfig(),
		okStrategy("structural-pdf", constants.MethodStructuralPDF, "text"),
		okStrategy("ocr", constants.MethodOCR, "ocr"))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("unrelated", "value")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
