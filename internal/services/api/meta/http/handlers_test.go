package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"astrograph/internal/core/ephem"
	metahttp "astrograph/internal/services/api/meta/http"

	phttp "astrograph/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

// scriptedProvider answers every sample with a fixed outcome
type scriptedProvider struct {
	err error
}

func (p *scriptedProvider) Sample(context.Context, ephem.Body, time.Time, ephem.Mode) (ephem.Sample, error) {
	if p.err != nil {
		return ephem.Sample{}, p.err
	}
	return ephem.Sample{Longitude: 10}, nil
}

func mountMeta(t *testing.T, provider ephem.Provider) *chi.Mux {
	t.Helper()
	mux := chi.NewRouter()
	metahttp.Register(phttp.AdaptChi(mux), metahttp.Deps{
		ServiceName: "astrograph-api",
		StartedAt:   time.Now().UTC(),
		Ephem:       provider,
	})
	return mux
}

func TestReady_HealthyProvider(t *testing.T) {
	t.Parallel()

	mux := mountMeta(t, &scriptedProvider{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var env struct {
		Data metahttp.ReadyResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Status != "ok" {
		t.Fatalf("ready status = %q, want ok", env.Data.Status)
	}
}

// A dead ephemeris provider must turn readiness into a provider error, not a
// 200 payload that merely mentions the failure.
func TestReady_ProviderOutageIsBadGateway(t *testing.T) {
	t.Parallel()

	boom := ephem.Errf(ephem.Sun, time.Now().UTC(), "scripted outage")
	mux := mountMeta(t, &scriptedProvider{err: boom})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error == "" {
		t.Fatal("missing error message")
	}
}

func TestReady_NoProviderIsDegraded(t *testing.T) {
	t.Parallel()

	mux := mountMeta(t, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var env struct {
		Data metahttp.ReadyResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Status != "degraded" {
		t.Fatalf("ready status = %q, want degraded", env.Data.Status)
	}
}
