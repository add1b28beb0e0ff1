package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	"github.com/akellamp2020-create/lamp-card-render/pkg/config"
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
	"github.com/akellamp2020-create/lamp-card-render/pkg/pipeline"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

type fakeRenderer struct {
	err  error
	docs []card.Document
}

func (f *fakeRenderer) Render(_ context.Context, doc card.Document, _ render.Viewport) ([]byte, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG"), nil
}

func newTestServer(t *testing.T, r render.Renderer, mutate func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	engine, err := card.NewEngine(cfg.Engine.ChunkWidth)
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := httptest.NewServer(New(pipeline.NewRunner(engine, r, logger), cfg, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("error content type = %q", ct)
	}
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if e.OK {
		t.Error("error body must carry ok=false")
	}
	return e
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t, &fakeRenderer{}, nil)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != Banner {
		t.Errorf("GET / = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var health map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if !health["ok"] {
		t.Errorf("GET /health = %v, want ok=true", health)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("responses should carry a request id")
	}
}

func TestRenderPNG(t *testing.T) {
	fake := &fakeRenderer{}
	srv := newTestServer(t, fake, nil)

	resp := post(t, srv.URL+"/render", `{"name": "Петро", "detailsRozmin": "100|-40|30"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "\x89PNG" {
		t.Errorf("body = %q", body)
	}
	if len(fake.docs) != 1 || len(fake.docs[0].Cards) != 2 {
		t.Errorf("renderer received %+v, want one document with 2 cards", fake.docs)
	}
}

func TestRenderFormats(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp := post(t, srv.URL+"/render?format=json", `{"detailsRozrah": "1|2|3|4|5|6|7"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("json status = %d", resp.StatusCode)
	}
	var doc card.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Cards) != 1 || len(doc.Cards[0].Tables[0].Segments) != 2 {
		t.Errorf("document = %+v, want one card with two segments", doc)
	}

	resp = post(t, srv.URL+"/render?format=html", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("html status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("html content type = %q", ct)
	}
}

func TestRenderEmptyPayloadIsNotAnError(t *testing.T) {
	for _, body := range []string{`{}`, ``, " \n\t"} {
		t.Run(strings.TrimSpace(body), func(t *testing.T) {
			fake := &fakeRenderer{}
			srv := newTestServer(t, fake, nil)

			resp := post(t, srv.URL+"/render", body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if len(fake.docs) != 1 || !fake.docs[0].Empty() {
				t.Errorf("renderer should receive one empty document, got %+v", fake.docs)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name       string
		renderErr  error
		query      string
		body       string
		maxBody    int64
		wantStatus int
		wantCode   apperrors.Code
	}{
		{"not json", nil, "", `{"name":`, 0, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"unknown format", nil, "?format=gif", `{}`, 0, http.StatusBadRequest, apperrors.ErrCodeInvalidFormat},
		{"too large", nil, "", `{"name": "` + strings.Repeat("x", 64) + `"}`, 16, http.StatusRequestEntityTooLarge, apperrors.ErrCodePayloadTooLarge},
		{"overflow", apperrors.New(apperrors.ErrCodeRenderOverflow, "too tall"), "", `{}`, 0, http.StatusUnprocessableEntity, apperrors.ErrCodeRenderOverflow},
		{"unavailable", apperrors.New(apperrors.ErrCodeRenderUnavailable, "no browser"), "", `{}`, 0, http.StatusServiceUnavailable, apperrors.ErrCodeRenderUnavailable},
		{"timeout", apperrors.New(apperrors.ErrCodeRenderTimeout, "slow"), "", `{}`, 0, http.StatusGatewayTimeout, apperrors.ErrCodeRenderTimeout},
		{"failed", apperrors.New(apperrors.ErrCodeRenderFailed, "boom"), "", `{}`, 0, http.StatusInternalServerError, apperrors.ErrCodeRenderFailed},
		{"uncoded", io.ErrUnexpectedEOF, "", `{}`, 0, http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeRenderer{err: tt.renderErr}, func(c *config.Config) {
				if tt.maxBody > 0 {
					c.Server.MaxBodyBytes = tt.maxBody
				}
			})

			resp := post(t, srv.URL+"/render"+tt.query, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if e := decodeError(t, resp); e.Code != string(tt.wantCode) || e.Error == "" {
				t.Errorf("error body = %+v, want code %s", e, tt.wantCode)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	if got := StatusFor(apperrors.ErrCodeConfigInvalid); got != http.StatusInternalServerError {
		t.Errorf("StatusFor(CONFIG_INVALID) = %d, want 500", got)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, &fakeRenderer{}, nil)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestListenAndServeShutsDown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	engine, _ := card.NewEngine(cfg.Engine.ChunkWidth)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(engine, &fakeRenderer{}, logger), cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()

	if err := <-done; err != nil {
		t.Errorf("ListenAndServe() after cancel = %v, want nil", err)
	}
}
