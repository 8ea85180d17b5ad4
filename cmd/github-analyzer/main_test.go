package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LeoncioDev/github-analyzer/internal/config"
	"github.com/LeoncioDev/github-analyzer/internal/controller"
	"github.com/LeoncioDev/github-analyzer/internal/model"
	"github.com/LeoncioDev/github-analyzer/internal/store"
)

func testApp(t *testing.T, handler http.HandlerFunc) *app {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Backend.BaseURL = srv.URL
	cfg.Theme.Persist = false

	a := buildApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { a.Close() })
	return a
}

func withOutputFlags(t *testing.T, raw bool) {
	t.Helper()
	prevRaw, prevSpinner := rawOutput, noSpinner
	rawOutput, noSpinner = raw, true
	t.Cleanup(func() { rawOutput, noSpinner = prevRaw, prevSpinner })
}

func TestSubmit_RendersResult(t *testing.T) {
	withOutputFlags(t, false)

	var gotPath string
	var gotBody map[string]any
	a := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"analise":"<h2>Resumo</h2><ul><li>Go</li></ul>"}`))
	})

	req, err := a.ctrl.BuildProfile(controller.ProfileInput{UsernameOrURL: "octocat", Context: model.ContextSelfAnalysis})
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	var out bytes.Buffer
	if err := submit(context.Background(), a, req, "", &out); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if gotPath != "/analisar-perfil" {
		t.Errorf("path = %q, want /analisar-perfil", gotPath)
	}
	if gotBody["usernameOrUrl"] != "octocat" || gotBody["contexto"] != "autoanalise" {
		t.Errorf("unexpected body: %v", gotBody)
	}
	if !strings.Contains(out.String(), "RESUMO") || !strings.Contains(out.String(), "Go") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestSubmit_Raw(t *testing.T) {
	withOutputFlags(t, true)

	a := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resposta":"<p>ranked</p>"}`))
	})
	req, err := a.ctrl.BuildRanking(controller.RankingInput{
		JobDescription: "Go backend",
		Candidates:     []string{"https://github.com/alice"},
	})
	if err != nil {
		t.Fatalf("BuildRanking: %v", err)
	}

	var out bytes.Buffer
	if err := submit(context.Background(), a, req, "", &out); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "<p>ranked</p>" {
		t.Errorf("output = %q, want raw html", got)
	}
}

func TestSubmit_BackendError(t *testing.T) {
	withOutputFlags(t, false)

	a := testApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"User not found"}`))
	})
	req, _ := a.ctrl.BuildProfile(controller.ProfileInput{UsernameOrURL: "ghost"})

	var out bytes.Buffer
	err := submit(context.Background(), a, req, "", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := model.Describe(err); got != "User not found" {
		t.Errorf("Describe = %q, want %q", got, "User not found")
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestOpenStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.Default()
	cfg.Theme.Persist = false
	if _, ok := openStore(cfg, logger).(*store.NopStore); !ok {
		t.Error("expected NopStore when persistence is off")
	}

	cfg.Theme.Persist = true
	cfg.Store.Path = filepath.Join(t.TempDir(), "prefs.db")
	st := openStore(cfg, logger)
	defer st.Close()
	if _, ok := st.(*store.SQLiteStore); !ok {
		t.Errorf("expected SQLiteStore, got %T", st)
	}
}

func TestBuildApp_ThemeFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := st.SaveTheme(model.ThemeLight); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	st.Close()

	cfg := config.Default()
	cfg.Theme.Persist = true
	cfg.Store.Path = path

	a := buildApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer a.Close()
	if got := a.themes.Current(); got != model.ThemeLight {
		t.Errorf("theme = %q, want %q", got, model.ThemeLight)
	}
}

func TestBuildApp_Retries(t *testing.T) {
	withOutputFlags(t, true)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"analise":"<p>ok</p>"}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.Retry = config.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond}
	cfg.Theme.Persist = false

	a := buildApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer a.Close()

	req, _ := a.ctrl.BuildProfile(controller.ProfileInput{UsernameOrURL: "octocat"})
	var out bytes.Buffer
	if err := submit(context.Background(), a, req, "", &out); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}
