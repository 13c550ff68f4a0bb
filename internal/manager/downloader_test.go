package manager

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/fluentvoice/modelcache/internal/catalog"
	"github.com/fluentvoice/modelcache/internal/fs"
	"github.com/fluentvoice/modelcache/internal/port"
	"github.com/fluentvoice/modelcache/internal/progress"
)

// eventLog collects progress events from a download.
type eventLog struct {
	events []progress.Event
}

func (l *eventLog) callback() progress.Callback {
	return func(e progress.Event) {
		l.events = append(l.events, e)
	}
}

func (l *eventLog) last(t *testing.T) progress.Event {
	t.Helper()
	if len(l.events) == 0 {
		t.Fatal("no progress events emitted")
	}
	return l.events[len(l.events)-1]
}

func (l *eventLog) assertMonotonic(t *testing.T) {
	t.Helper()
	prev := -1.0
	for i, e := range l.events {
		if e.Percent < prev {
			t.Errorf("event %d: percent %v decreased from %v", i, e.Percent, prev)
		}
		prev = e.Percent
	}
}

func newDownloadManager(t *testing.T, serverURL string, history port.History) (*Manager, *fs.Manager) {
	t.Helper()

	fsys := fs.NewManager(t.TempDir())
	cfg := &Config{
		BaseURL:          serverURL,
		ProgressInterval: time.Millisecond,
	}
	return New(cfg, fsys, history, nil), fsys
}

func TestDownload_Success(t *testing.T) {
	body := bytes.Repeat([]byte("whisper"), 50_000) // 350 KB

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	defer server.Close()

	history := &fakeHistory{}
	m, fsys := newDownloadManager(t, server.URL, history)
	log := &eventLog{}

	ok, err := m.Download(context.Background(), catalog.Base, log.callback())
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !ok {
		t.Fatal("Download = false")
	}

	info := catalog.MustInfo(catalog.Base)
	finalPath := fsys.ArtifactPath(info.FileName)

	size, err := fsys.FileSize(finalPath)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if size != int64(len(body)) {
		t.Errorf("artifact size = %d, want %d", size, len(body))
	}
	if fsys.FileExists(fsys.TempPath(info.FileName)) {
		t.Error("temp file remains after successful download")
	}

	active, present := m.Active()
	if !present || active.Path != finalPath || active.Size != catalog.Base {
		t.Errorf("state = %+v/%v", active, present)
	}

	// Events: start at 0, end exactly at 100, never decrease.
	log.assertMonotonic(t)
	if first := log.events[0]; first.Percent != 0 || first.Kind != progress.KindDownloading {
		t.Errorf("first event = %+v, want 0%% downloading", first)
	}
	last := log.last(t)
	if last.Kind != progress.KindComplete || last.Percent != 100 {
		t.Errorf("last event = %+v, want 100%% complete", last)
	}
	if last.BytesDownloaded != int64(len(body)) || last.BytesTotal != int64(len(body)) {
		t.Errorf("completion bytes = %d/%d, want %d/%d",
			last.BytesDownloaded, last.BytesTotal, len(body), len(body))
	}

	if len(history.records) != 1 || history.records[0].Outcome != port.OutcomeSuccess {
		t.Errorf("history = %+v, want one success record", history.records)
	}
}

func TestDownload_ReplacesExistingArtifact(t *testing.T) {
	body := bytes.Repeat([]byte("new"), 100_000)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	defer server.Close()

	m, fsys := newDownloadManager(t, server.URL, nil)
	info := catalog.MustInfo(catalog.Tiny)
	if err := fsys.EnsureRoot(); err != nil {
		t.Fatal(err)
	}
	createSparse(t, fsys.ArtifactPath(info.FileName), 12345)

	ok, err := m.Download(context.Background(), catalog.Tiny, nil)
	if err != nil || !ok {
		t.Fatalf("Download = %v, %v", ok, err)
	}

	size, err := fsys.FileSize(fsys.ArtifactPath(info.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if size != int64(len(body)) {
		t.Errorf("artifact size = %d, want %d (old file not replaced)", size, len(body))
	}
}

func TestDownload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	history := &fakeHistory{}
	m, fsys := newDownloadManager(t, server.URL, history)
	log := &eventLog{}

	ok, err := m.Download(context.Background(), catalog.Small, log.callback())
	if err != nil {
		t.Fatalf("server error must be recoverable, got %v", err)
	}
	if ok {
		t.Fatal("Download = true on 404")
	}

	info := catalog.MustInfo(catalog.Small)
	if fsys.FileExists(fsys.TempPath(info.FileName)) {
		t.Error("temp file remains after failed download")
	}
	if m.IsActive() {
		t.Error("state mutated by failed download")
	}

	last := log.last(t)
	if last.Kind != progress.KindFailed || last.Percent != 0 {
		t.Errorf("last event = %+v, want 0%% failed", last)
	}
	if last.Message == "" {
		t.Error("failure event carries no message")
	}

	if len(history.records) != 1 || history.records[0].Outcome != port.OutcomeFailed {
		t.Errorf("history = %+v, want one failed record", history.records)
	}
}

func TestDownload_TruncatedBelowThreshold(t *testing.T) {
	// No Content-Length: the expected size falls back to the catalog's
	// approximation, far above the few bytes actually served, so the
	// integrity check trips.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not nearly a whole model"))
		w.(http.Flusher).Flush()
	}))
	defer server.Close()

	m, fsys := newDownloadManager(t, server.URL, nil)
	log := &eventLog{}

	ok, err := m.Download(context.Background(), catalog.Tiny, log.callback())
	if err != nil {
		t.Fatalf("truncation must be recoverable, got %v", err)
	}
	if ok {
		t.Fatal("Download = true for truncated body")
	}

	info := catalog.MustInfo(catalog.Tiny)
	if fsys.FileExists(fsys.TempPath(info.FileName)) {
		t.Error("temp file remains after integrity failure")
	}
	if fsys.FileExists(fsys.ArtifactPath(info.FileName)) {
		t.Error("truncated artifact was installed")
	}
	if m.IsActive() {
		t.Error("state mutated by integrity failure")
	}

	last := log.last(t)
	if last.Kind != progress.KindFailed || last.Percent != 0 {
		t.Errorf("last event = %+v, want 0%% failed", last)
	}
}

func TestDownload_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(bytes.Repeat([]byte("x"), 1024))
		w.(http.Flusher).Flush()
		// Hold the stream open until the client goes away.
		<-r.Context().Done()
	}))
	defer server.Close()

	history := &fakeHistory{}
	m, fsys := newDownloadManager(t, server.URL, history)
	log := &eventLog{}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	ok, err := m.Download(ctx, catalog.Medium, log.callback())
	if ok {
		t.Fatal("Download = true after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	info := catalog.MustInfo(catalog.Medium)
	if fsys.FileExists(fsys.TempPath(info.FileName)) {
		t.Error("temp file remains after cancellation")
	}
	if m.IsActive() {
		t.Error("state mutated by canceled download")
	}

	// Cancellation is not a failed download: no failure event.
	for _, e := range log.events {
		if e.Kind == progress.KindFailed {
			t.Errorf("failure event emitted for cancellation: %+v", e)
		}
	}

	if len(history.records) != 1 || history.records[0].Outcome != port.OutcomeCanceled {
		t.Errorf("history = %+v, want one canceled record", history.records)
	}
}

func TestDownload_NilCallback(t *testing.T) {
	body := bytes.Repeat([]byte("b"), 200_000)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	defer server.Close()

	m, _ := newDownloadManager(t, server.URL, nil)

	ok, err := m.Download(context.Background(), catalog.Base, nil)
	if err != nil || !ok {
		t.Fatalf("Download with nil callback = %v, %v", ok, err)
	}
}
