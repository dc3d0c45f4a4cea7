package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/orizon-lang/goanalyzer/internal/analyzer"
)

func TestAnalyzeEndpoint(t *testing.T) {
	handler := NewHandler(nil)

	tests := []struct {
		name          string
		method        string
		version       string
		body          string
		expectStatus  int
		expectSuccess bool
	}{
		{"valid", http.MethodPost, "", "package main\nvar x int = 5", http.StatusOK, true},
		{"semantic error", http.MethodPost, "", "package main\nvar x int = \"hi\"", http.StatusOK, false},
		{"wrong method", http.MethodGet, "", "", http.StatusMethodNotAllowed, false},
		{"satisfied version", http.MethodPost, "^1.0", "package main", http.StatusOK, true},
		{"unsatisfied version", http.MethodPost, ">= 2.0.0", "package main", http.StatusConflict, false},
		{"invalid version", http.MethodPost, "not a version", "package main", http.StatusBadRequest, false},
		{"too large", http.MethodPost, "", strings.Repeat(" ", MaxSourceBytes+1), http.StatusRequestEntityTooLarge, false},
	}

	for i, tt := range tests {
		req := httptest.NewRequest(tt.method, "/analyze", strings.NewReader(tt.body))
		if tt.version != "" {
			req.Header.Set(VersionHeader, tt.version)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.expectStatus {
			t.Errorf("tests[%d] - %s: status wrong. expected=%d, got=%d (%s)",
				i, tt.name, tt.expectStatus, rec.Code, rec.Body.String())
			continue
		}
		if rec.Code != http.StatusOK {
			continue
		}
		if got := rec.Header().Get(VersionHeader); got != analyzer.SchemaVersion {
			t.Errorf("tests[%d] - %s: version header wrong. expected=%q, got=%q",
				i, tt.name, analyzer.SchemaVersion, got)
		}
		var report analyzer.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("tests[%d] - %s: invalid JSON: %v", i, tt.name, err)
		}
		if report.Success != tt.expectSuccess {
			t.Errorf("tests[%d] - %s: success wrong. expected=%t, got=%t",
				i, tt.name, tt.expectSuccess, report.Success)
		}
	}
}

func TestAnalyzeVerbose(t *testing.T) {
	srv := httptest.NewServer(NewHandler(nil))
	defer srv.Close()

	resp, err := srv.Client().Post(srv.URL+"/analyze?verbose=true", "text/plain",
		strings.NewReader("package main\nfunc main() {}"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var report analyzer.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if len(report.Productions) == 0 {
		t.Fatalf("expected productions in verbose report")
	}
	if report.Productions[0] != "✔ package_decl" {
		t.Errorf("first production wrong. got=%q", report.Productions[0])
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestServeShutsDown(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"})
	if err := s.Listen(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status wrong. got=%d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHTTP3RequiresTLS(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0", HTTP3Addr: "127.0.0.1:0"})
	if err := s.Listen(); err == nil {
		t.Fatal("expected an error without TLS config")
	}
}

func TestHTTP3Loopback(t *testing.T) {
	tlsCfg, err := GenerateSelfSignedTLS([]string{"127.0.0.1", "localhost"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{Addr: "127.0.0.1:0", HTTP3Addr: "127.0.0.1:0", TLS: tlsCfg})
	if err := s.Listen(); err != nil {
		t.Skip("udp listen not supported here:", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Serve(ctx) }()

	cli := HTTP3Client(&tls.Config{InsecureSkipVerify: true, MinVersion: tls.VersionTLS13}, 2*time.Second)
	defer CloseHTTP3Client(cli)
	resp, err := cli.Post("https://"+s.HTTP3Addr()+"/analyze", "text/plain",
		strings.NewReader("package main\nfunc main() {\n\tbreak\n}"))
	if err != nil {
		t.Skip("http3 dial failed:", err)
	}
	defer resp.Body.Close()

	var report analyzer.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if len(report.SemanticDiagnostics) != 1 ||
		report.SemanticDiagnostics[0].Message != "Break statement outside of loop or switch" {
		t.Fatalf("unexpected report over http3: %+v", report.SemanticDiagnostics)
	}
}
