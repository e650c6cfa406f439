package integration

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/festie/internal/calendar"
	"github.com/danieljhkim/festie/internal/clock"
	"github.com/danieljhkim/festie/internal/engine"
	"github.com/danieljhkim/festie/internal/fsops"
	"github.com/danieljhkim/festie/internal/hash"
	"github.com/danieljhkim/festie/internal/kv"
	"github.com/danieljhkim/festie/internal/lineup"
	"github.com/danieljhkim/festie/internal/logging"
	"github.com/danieljhkim/festie/internal/persist"
	"github.com/danieljhkim/festie/internal/planner"
)

// festivalDay is the date every test lineup is placed on.
var festivalDay = time.Date(2026, 7, 18, 0, 0, 0, 0, time.UTC)

// testFS is a filesystem implementation that keeps files in memory for testing
type testFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
	real  *fsops.RealFS
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		real:  fsops.NewRealFS(),
	}
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for p := path; p != "." && p != "/"; p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(fs.files, path)
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, ok := fs.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (fs *testFS) Exists(path string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, isFile := fs.files[path]
	return isFile || fs.dirs[path], nil
}

func (fs *testFS) ReadDataURL(path string) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return fsops.EncodeDataURL(data), nil
}

func (fs *testFS) ValidateKey(key string) error {
	return fs.real.ValidateKey(key)
}

// put stores a file directly.
func (fs *testFS) put(path string, data string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(data)
}

// harness bundles one engine instance and what it was built from.
type harness struct {
	eng   *engine.Engine
	store *lineup.Store
	fs    *testFS
	clock *clock.FakeClock
}

// openEngine wires an engine the way the CLI does, over backing and fs.
func openEngine(t *testing.T, fs *testFS, backing kv.Store, detector planner.Detector) *harness {
	t.Helper()

	clk := clock.NewFakeClock(festivalDay.Add(10 * time.Hour))
	logger := logging.Discard()

	store := lineup.NewStore(backing, clock.NewIDSource(clk), logger)
	store.Load()

	snapshots := persist.NewSnapshotManager(fs, backing, hash.NewSHA256Hasher(), clk,
		lineup.CatalogKey, lineup.FavoritesKey)

	eng := engine.New(store, fs, clk, engine.Options{
		Detector: detector,
		Style:    planner.Conventional,
		Festival: calendar.Festival{
			Name:     "Integration Fest",
			Day:      festivalDay,
			Location: time.UTC,
		},
		Snapshots: snapshots,
		Logger:    logger,
	})

	return &harness{eng: eng, store: store, fs: fs, clock: clk}
}

// lineupICS is a small published lineup with one clash (Opening Act / Side Stage).
const lineupICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//integration//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:opening@test\r\n" +
	"DTSTAMP:20260701T000000Z\r\n" +
	"DTSTART:20260718T170000Z\r\n" +
	"DTEND:20260718T180000Z\r\n" +
	"SUMMARY:Opening Act\r\n" +
	"CATEGORIES:Folk\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:side@test\r\n" +
	"DTSTAMP:20260701T000000Z\r\n" +
	"DTSTART:20260718T173000Z\r\n" +
	"DTEND:20260718T183000Z\r\n" +
	"SUMMARY:Side Stage\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func names(perfs []lineup.Performance) []string {
	out := make([]string, len(perfs))
	for i, p := range perfs {
		out[i] = p.Name
	}
	return out
}
