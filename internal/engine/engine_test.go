package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/festie/internal/calendar"
	"github.com/danieljhkim/festie/internal/clock"
	"github.com/danieljhkim/festie/internal/fsops"
	"github.com/danieljhkim/festie/internal/importer"
	"github.com/danieljhkim/festie/internal/kv"
	"github.com/danieljhkim/festie/internal/lineup"
	"github.com/danieljhkim/festie/internal/logging"
	"github.com/danieljhkim/festie/internal/planner"
)

var festivalDay = time.Date(2026, 7, 18, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, backing kv.Store, detector planner.Detector) (*Engine, *lineup.Store) {
	t.Helper()

	clk := clock.NewFakeClock(festivalDay.Add(12 * time.Hour))
	store := lineup.NewStore(backing, clock.NewIDSource(clk), logging.Discard())
	store.Load()

	eng := New(store, fsops.NewRealFS(), clk, Options{
		Detector: detector,
		Style:    planner.Conventional,
		Festival: calendar.Festival{Name: "Festie Fest", Day: festivalDay, Location: time.UTC},
		Logger:   logging.Discard(),
	})
	return eng, store
}

func favorite(t *testing.T, eng *Engine, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		if _, err := eng.ToggleFavorite(context.Background(), &FavoriteRequest{ID: id}); err != nil {
			t.Fatalf("ToggleFavorite(%d) error = %v", id, err)
		}
	}
}

func TestLineup(t *testing.T) {
	eng, _ := newTestEngine(t, kv.NewMemoryStore(), nil)
	favorite(t, eng, 2)

	t.Run("all", func(t *testing.T) {
		res, err := eng.Lineup(context.Background(), &LineupRequest{})
		if err != nil {
			t.Fatalf("Lineup() error = %v", err)
		}
		if len(res.Performances) != 5 || res.Total != 5 {
			t.Fatalf("Lineup() returned %d of %d, want 5 of 5", len(res.Performances), res.Total)
		}
		if res.Performances[4].Slot != "TBA" {
			t.Errorf("Lizzo slot = %q, want TBA", res.Performances[4].Slot)
		}
	})

	t.Run("search", func(t *testing.T) {
		res, err := eng.Lineup(context.Background(), &LineupRequest{Search: "  sza "})
		if err != nil {
			t.Fatalf("Lineup() error = %v", err)
		}
		if len(res.Performances) != 1 {
			t.Fatalf("Lineup() returned %d, want 1", len(res.Performances))
		}
		got := res.Performances[0]
		if got.Name != "SZA" || got.Slot != "9:00 PM - 10:30 PM" || !got.Favorite {
			t.Errorf("got %+v", got)
		}
		if res.Total != 5 {
			t.Errorf("Total = %d, want 5", res.Total)
		}
	})
}

func TestToggleFavorite(t *testing.T) {
	t.Run("toggle on and off", func(t *testing.T) {
		eng, store := newTestEngine(t, kv.NewMemoryStore(), nil)

		res, err := eng.ToggleFavorite(context.Background(), &FavoriteRequest{ID: 1})
		if err != nil {
			t.Fatalf("ToggleFavorite() error = %v", err)
		}
		if !res.Favorite || res.Name != "The Strokes" || !reflect.DeepEqual(res.Favorites, []int64{1}) {
			t.Errorf("first toggle = %+v", res)
		}

		res, err = eng.ToggleFavorite(context.Background(), &FavoriteRequest{ID: 1})
		if err != nil {
			t.Fatalf("ToggleFavorite() error = %v", err)
		}
		if res.Favorite || len(res.Favorites) != 0 {
			t.Errorf("second toggle = %+v", res)
		}
		if store.IsFavorite(1) {
			t.Error("store still lists id 1")
		}
	})

	t.Run("unknown id is accepted", func(t *testing.T) {
		eng, _ := newTestEngine(t, kv.NewMemoryStore(), nil)
		res, err := eng.ToggleFavorite(context.Background(), &FavoriteRequest{ID: 99})
		if err != nil {
			t.Fatalf("ToggleFavorite() error = %v", err)
		}
		if !res.Favorite || res.Name != "" || !reflect.DeepEqual(res.Favorites, []int64{99}) {
			t.Errorf("toggle = %+v", res)
		}

		sched, err := eng.Favorites(context.Background())
		if err != nil {
			t.Fatalf("Favorites() error = %v", err)
		}
		if len(sched.Performances) != 0 {
			t.Errorf("schedule = %+v, want empty", sched.Performances)
		}
	})

	t.Run("dangling favorite can be cleared", func(t *testing.T) {
		backing := kv.NewMemoryStore()
		if err := backing.Set(lineup.FavoritesKey, []byte("[42,1]")); err != nil {
			t.Fatal(err)
		}
		eng, store := newTestEngine(t, backing, nil)

		res, err := eng.ToggleFavorite(context.Background(), &FavoriteRequest{ID: 42})
		if err != nil {
			t.Fatalf("ToggleFavorite() error = %v", err)
		}
		if res.Favorite || !reflect.DeepEqual(res.Favorites, []int64{1}) {
			t.Errorf("toggle = %+v", res)
		}
		if store.IsFavorite(42) {
			t.Error("dangling id should be removed")
		}
	})
}

func TestConflicts(t *testing.T) {
	detectors := map[string]planner.Detector{
		"pairwise": planner.Pairwise{},
		"indexed":  planner.Indexed{},
	}

	for name, detector := range detectors {
		t.Run(name, func(t *testing.T) {
			eng, _ := newTestEngine(t, kv.NewMemoryStore(), detector)
			favorite(t, eng, 2, 1, 4, 5)

			res, err := eng.Conflicts(context.Background())
			if err != nil {
				t.Fatalf("Conflicts() error = %v", err)
			}
			if len(res.Conflicts) != 1 {
				t.Fatalf("got %d conflicts, want 1", len(res.Conflicts))
			}

			// Favorites resolve in catalog order, so The Strokes comes first.
			if res.Primary == nil || res.Primary.A.Name != "The Strokes" || res.Primary.B.Name != "SZA" {
				t.Errorf("Primary = %+v", res.Primary)
			}
			wantSuggestion := "Split set: catch the first 30 minutes of The Strokes, then head over to SZA."
			if res.Suggestion != wantSuggestion {
				t.Errorf("Suggestion = %q, want %q", res.Suggestion, wantSuggestion)
			}
			wantDesc := "The Strokes (8:00 PM - 9:30 PM) overlaps SZA (9:00 PM - 10:30 PM)"
			if len(res.Descriptions) != 1 || res.Descriptions[0] != wantDesc {
				t.Errorf("Descriptions = %v", res.Descriptions)
			}
		})
	}

	t.Run("no favorites", func(t *testing.T) {
		eng, _ := newTestEngine(t, kv.NewMemoryStore(), nil)

		res, err := eng.Conflicts(context.Background())
		if err != nil {
			t.Fatalf("Conflicts() error = %v", err)
		}
		if res.HasConflicts() || res.Primary != nil || res.Suggestion != "" {
			t.Errorf("expected empty report, got %+v", res)
		}
		if res.Conflicts == nil {
			t.Error("Conflicts should be an empty list, not nil")
		}
	})
}

func TestFavorites(t *testing.T) {
	eng, _ := newTestEngine(t, kv.NewMemoryStore(), nil)
	favorite(t, eng, 5, 4)

	res, err := eng.Favorites(context.Background())
	if err != nil {
		t.Fatalf("Favorites() error = %v", err)
	}

	var names []string
	for _, p := range res.Performances {
		names = append(names, p.Name)
		if !p.Favorite {
			t.Errorf("%s should be marked favorite", p.Name)
		}
	}
	if !reflect.DeepEqual(names, []string{"Tame Impala", "Lizzo"}) {
		t.Errorf("names = %v", names)
	}
	if res.Conflicts.HasConflicts() {
		t.Errorf("unexpected conflicts: %+v", res.Conflicts)
	}
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "band.png")
	if err := os.WriteFile(image, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0644); err != nil {
		t.Fatal(err)
	}
	text := filepath.Join(dir, "band.txt")
	if err := os.WriteFile(text, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "png", path: image},
		{name: "not an image", path: text, wantErr: ErrValidation},
		{name: "missing", path: filepath.Join(dir, "nope.png"), wantErr: ErrNotFound},
		{name: "empty path", path: "", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, store := newTestEngine(t, kv.NewMemoryStore(), nil)

			res, err := eng.Upload(context.Background(), &UploadRequest{Path: tt.path})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
				}
				if len(store.Catalog()) != 5 {
					t.Error("failed upload should not change the catalog")
				}
				return
			}
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}

			p := res.Performance
			if p.Name != lineup.UploadName || p.Genre != lineup.UploadGenre {
				t.Errorf("uploaded = %s/%s", p.Name, p.Genre)
			}
			if !strings.HasPrefix(p.Image, "data:image/png;base64,") {
				t.Errorf("Image = %.40q, want png data URL", p.Image)
			}
			if res.CatalogSize != 6 || store.Catalog()[0].ID != p.ID {
				t.Errorf("upload should be prepended, catalog size %d", res.CatalogSize)
			}
		})
	}
}

func TestImport(t *testing.T) {
	t.Run("link import", func(t *testing.T) {
		eng, store := newTestEngine(t, kv.NewMemoryStore(), nil)

		var stages []importer.Stage
		res, err := eng.Import(context.Background(),
			&ImportRequest{Kind: ImportLink, Target: "https://festival.example.com/lineup"},
			func(p importer.Progress) { stages = append(stages, p.Stage) })
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}

		if res.Message != "Link Analyzed! Added 3 new artists." {
			t.Errorf("Message = %q", res.Message)
		}
		want := []importer.Stage{importer.StageScanning, importer.StageMatching, importer.StageBuilding, importer.StageComplete}
		if !reflect.DeepEqual(stages, want) {
			t.Errorf("stages = %v, want %v", stages, want)
		}
		if got := store.Catalog()[0].Name; got != "Neon Dreams" {
			t.Errorf("catalog head = %q, want Neon Dreams", got)
		}
		if len(store.Catalog()) != 8 {
			t.Errorf("catalog size = %d, want 8", len(store.Catalog()))
		}
	})

	t.Run("validation", func(t *testing.T) {
		eng, _ := newTestEngine(t, kv.NewMemoryStore(), nil)

		reqs := []*ImportRequest{
			{Kind: ImportLink, Target: "not a url"},
			{Kind: "fax", Target: "x"},
			{Kind: ImportPoster, Target: ""},
		}
		for _, req := range reqs {
			if _, err := eng.Import(context.Background(), req, nil); !errors.Is(err, ErrValidation) {
				t.Errorf("Import(%+v) error = %v, want ErrValidation", req, err)
			}
		}
	})
}

func TestExportICS(t *testing.T) {
	eng, _ := newTestEngine(t, kv.NewMemoryStore(), nil)
	favorite(t, eng, 1, 5)

	res, err := eng.ExportICS(context.Background(), &ExportRequest{})
	if err != nil {
		t.Fatalf("ExportICS() error = %v", err)
	}
	if res.Events != 1 || !reflect.DeepEqual(res.Skipped, []string{"Lizzo"}) {
		t.Errorf("ExportICS() = %d events, skipped %v", res.Events, res.Skipped)
	}
	if res.Path != "" {
		t.Errorf("Path = %q, want empty when no output file is given", res.Path)
	}

	out := filepath.Join(t.TempDir(), "schedule.ics")
	res, err = eng.ExportICS(context.Background(), &ExportRequest{Out: out})
	if err != nil {
		t.Fatalf("ExportICS() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !strings.Contains(string(data), "SUMMARY:The Strokes") {
		t.Error("exported file missing favorite")
	}
	if res.Path != out {
		t.Errorf("Path = %q, want %q", res.Path, out)
	}
}

func TestCalendarLink(t *testing.T) {
	eng, _ := newTestEngine(t, kv.NewMemoryStore(), nil)
	favorite(t, eng, 4)

	res, err := eng.CalendarLink(context.Background())
	if err != nil {
		t.Fatalf("CalendarLink() error = %v", err)
	}
	if res.Count != 1 {
		t.Errorf("Count = %d, want 1", res.Count)
	}
	if !strings.HasPrefix(res.URL, "https://calendar.google.com/calendar/render?") {
		t.Errorf("URL = %q", res.URL)
	}
	if !strings.Contains(res.URL, "Tame+Impala") {
		t.Errorf("URL should list the favorite: %q", res.URL)
	}
}

func TestImport_Busy(t *testing.T) {
	clk := clock.NewFakeClock(festivalDay.Add(12 * time.Hour))
	store := lineup.NewStore(kv.NewMemoryStore(), clock.NewIDSource(clk), logging.Discard())
	eng := New(store, fsops.NewRealFS(), clk, Options{
		StageDelay: time.Hour,
		Logger:     logging.Discard(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		var once bool
		_, err := eng.Import(ctx, &ImportRequest{Kind: ImportLink, Target: "https://example.com"},
			func(importer.Progress) {
				if !once {
					once = true
					close(started)
				}
			})
		done <- err
	}()
	<-started

	_, err := eng.Import(context.Background(), &ImportRequest{Kind: ImportLink, Target: "https://example.com"}, nil)
	if !errors.Is(err, ErrImportBusy) {
		t.Errorf("second Import() error = %v, want ErrImportBusy", err)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("first Import() error = %v, want context.Canceled", err)
	}
	if len(store.Catalog()) != len(lineup.Seed()) {
		t.Error("cancelled import should not change the catalog")
	}
}
