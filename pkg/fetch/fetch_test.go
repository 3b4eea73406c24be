package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

type tarEntry struct {
	name string
	body string
	dir  bool
}

func buildTarball(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if !e.dir {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestFetchExtractsBundle(t *testing.T) {
	tarball := buildTarball(t, []tarEntry{
		{name: "repo-main/", dir: true},
		{name: "repo-main/templates/", dir: true},
		{name: "repo-main/templates/zabbix/", dir: true},
		{name: "repo-main/templates/zabbix/cambium-fiber/", dir: true},
		{name: "repo-main/templates/zabbix/cambium-fiber/requirements.yaml", body: "metadata: {}\n"},
		{name: "repo-main/templates/zabbix/cambium-fiber/template.yaml", body: "zabbix_export: {}\n"},
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(tarball)
	}))
	defer srv.Close()

	f := New(srv.Client(), testLogger())
	root, err := f.Fetch(context.Background(), srv.URL, t.TempDir())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	dir, err := Locate(root, "zabbix", "cambium-fiber")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "requirements.yaml"))
	if err != nil {
		t.Fatalf("reading extracted file: %v", err)
	}
	if string(data) != "metadata: {}\n" {
		t.Errorf("extracted content = %q", data)
	}
}

func TestFetchRejectsTraversal(t *testing.T) {
	tarball := buildTarball(t, []tarEntry{
		{name: "../evil.txt", body: "pwned"},
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(tarball)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := New(srv.Client(), testLogger())
	if _, err := f.Fetch(context.Background(), srv.URL, dir); err == nil {
		t.Fatal("traversal entry must be rejected")
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.txt")); err == nil {
		t.Error("traversal file must not be written")
	}
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(srv.Client(), testLogger())
	if _, err := f.Fetch(context.Background(), srv.URL, t.TempDir()); err == nil {
		t.Fatal("non-200 response must fail")
	}
}

func TestLocateConventionalPathAtRoot(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "templates", "zabbix", "cambium-fiber")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "requirements.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(root, "zabbix", "cambium-fiber")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != dir {
		t.Errorf("Locate = %q, want %q", got, dir)
	}
}

func TestLocateMissingBundle(t *testing.T) {
	if _, err := Locate(t.TempDir(), "zabbix", "cambium-fiber"); err == nil {
		t.Fatal("expected an error for an empty root")
	}
}
