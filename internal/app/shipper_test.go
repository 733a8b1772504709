package app

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bft-labs/dumpship/internal/domain"
	"github.com/bft-labs/dumpship/internal/ports"
	"github.com/bft-labs/dumpship/pkg/state"
)

var _ ports.ReceiptRepository = (*state.FileRepository)(nil)

// receivedUpload is one request seen by the test server.
type receivedUpload struct {
	fields map[string]string
	files  map[string]string // field -> filename
}

// collectorServer decodes every upload it receives.
type collectorServer struct {
	mu      sync.Mutex
	uploads []receivedUpload
	status  int
}

func (c *collectorServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gz, err := gzip.NewReader(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(gz)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	up := receivedUpload{fields: map[string]string{}, files: map[string]string{}}
	for name, values := range r.MultipartForm.Value {
		up.fields[name] = values[0]
	}
	for name, headers := range r.MultipartForm.File {
		up.files[name] = headers[0].Filename
	}

	c.mu.Lock()
	c.uploads = append(c.uploads, up)
	status := c.status
	c.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte("CrashID=bp-1234"))
}

func (c *collectorServer) received() []receivedUpload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]receivedUpload(nil), c.uploads...)
}

func writeDump(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("MDMP\x93\xa7"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestShipper_Ship(t *testing.T) {
	srv := &collectorServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	dir := t.TempDir()
	dump := writeDump(t, dir, "crash.dmp")
	repo := state.NewFileRepository(filepath.Join(dir, "state"))

	s := NewShipper(ShipperConfig{
		URL:        ts.URL,
		MinidumpID: "abc-123",
		Params:     map[string]string{"prod": "MyCppGame", "ver": "1.0.0"},
	}, repo, nil)

	resp, err := s.Ship(context.Background(), []Attachment{{FieldName: "upload_file_minidump", Path: dump}})
	if err != nil {
		t.Fatalf("Ship() error = %v", err)
	}
	if resp.Code != 0 || resp.Body != "CrashID=bp-1234" {
		t.Errorf("Ship() = %+v", resp)
	}

	uploads := srv.received()
	if len(uploads) != 1 {
		t.Fatalf("server saw %d uploads, want 1", len(uploads))
	}
	up := uploads[0]
	if up.fields["prod"] != "MyCppGame" || up.fields["ver"] != "1.0.0" {
		t.Errorf("fields = %v", up.fields)
	}
	if up.files["upload_file_minidump"] != "abc-123.dmp" {
		t.Errorf("files = %v", up.files)
	}

	if !s.Uploaded(dump) {
		t.Error("Uploaded() = false after accepted upload")
	}
	if _, err := os.Stat(dump); err != nil {
		t.Errorf("dump removed without DeleteAfterUpload: %v", err)
	}

	history, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	last, ok := history.Last()
	if !ok || !last.OK() || last.MinidumpID != "abc-123" || last.ResponseBytes != len("CrashID=bp-1234") {
		t.Errorf("last receipt = %+v", last)
	}
}

func TestShipper_ShipGeneratesID(t *testing.T) {
	srv := &collectorServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	dump := writeDump(t, t.TempDir(), "crash.dmp")
	s := NewShipper(ShipperConfig{URL: ts.URL}, nil, nil)

	if _, err := s.Ship(context.Background(), []Attachment{{FieldName: "f", Path: dump}}); err != nil {
		t.Fatalf("Ship() error = %v", err)
	}
	name := srv.received()[0].files["f"]
	if len(name) != len("00000000-0000-0000-0000-000000000000.dmp") {
		t.Errorf("filename = %q, want a UUID", name)
	}
}

func TestShipper_ShipDump(t *testing.T) {
	srv := &collectorServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	dir := t.TempDir()
	dump := writeDump(t, dir, "5f1c7e2a.dmp")
	logFile := writeDump(t, dir, "app.log")

	s := NewShipper(ShipperConfig{
		URL:               ts.URL,
		FieldName:         "upload_file_minidump",
		Extra:             []Attachment{{FieldName: "log", Path: logFile}},
		DeleteAfterUpload: true,
	}, nil, nil)

	if err := s.ShipDump(context.Background(), dump); err != nil {
		t.Fatalf("ShipDump() error = %v", err)
	}

	up := srv.received()[0]
	if up.files["upload_file_minidump"] != "5f1c7e2a.dmp" {
		t.Errorf("dump filename = %q", up.files["upload_file_minidump"])
	}
	if up.files["log"] != "5f1c7e2a.dmp" {
		t.Errorf("extra filename = %q", up.files["log"])
	}

	if _, err := os.Stat(dump); !os.IsNotExist(err) {
		t.Errorf("dump should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("extra file should be kept: %v", err)
	}
}

func TestShipper_ServerRejects(t *testing.T) {
	srv := &collectorServer{status: http.StatusServiceUnavailable}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	dir := t.TempDir()
	dump := writeDump(t, dir, "crash.dmp")
	repo := state.NewFileRepository(dir)

	s := NewShipper(ShipperConfig{URL: ts.URL, FieldName: "f", DeleteAfterUpload: true}, repo, nil)
	err := s.ShipDump(context.Background(), dump)

	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("ShipDump() error = %v, want ErrTransport", err)
	}
	if s.Uploaded(dump) {
		t.Error("Uploaded() = true after rejected upload")
	}
	if _, err := os.Stat(dump); err != nil {
		t.Errorf("rejected dump should be kept: %v", err)
	}

	history, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	last, _ := history.Last()
	if last.Code != http.StatusServiceUnavailable || last.Error == "" {
		t.Errorf("last receipt = %+v", last)
	}
}

func TestShipper_LoadRemembersUploads(t *testing.T) {
	dir := t.TempDir()
	repo := state.NewFileRepository(dir)
	if _, err := repo.Append(context.Background(), state.Receipt{Files: []string{"/dumps/old.dmp"}}); err != nil {
		t.Fatal(err)
	}

	s := NewShipper(ShipperConfig{}, repo, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.Uploaded("/dumps/old.dmp") {
		t.Error("Uploaded() = false for recorded dump")
	}
	if s.Uploaded("/dumps/new.dmp") {
		t.Error("Uploaded() = true for unknown dump")
	}
}

func TestShipper_LoadCorruptHistory(t *testing.T) {
	dir := t.TempDir()
	repo := state.NewFileRepository(dir)
	if err := os.WriteFile(repo.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewShipper(ShipperConfig{}, repo, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Errorf("Load() error = %v, want corrupt history ignored", err)
	}
}
