package planner

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/danieljhkim/festie/internal/lineup"
)

func perf(id int64, name string, start, end int) lineup.Performance {
	return lineup.Performance{ID: id, Name: name, TimeStart: start, TimeEnd: end}
}

func pairNames(r Report) [][2]string {
	out := make([][2]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		out = append(out, [2]string{c.A.Name, c.B.Name})
	}
	return out
}

// detectors runs each test against both scan strategies.
var detectors = map[string]func([]lineup.Performance) Report{
	"pairwise": Detect,
	"indexed":  DetectIndexed,
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b lineup.Performance
		want bool
	}{
		{name: "partial overlap", a: perf(1, "A", 2000, 2130), b: perf(2, "B", 2100, 2230), want: true},
		{name: "disjoint with gap", a: perf(1, "C", 1800, 1900), b: perf(2, "D", 1930, 2100), want: false},
		{name: "touching ends", a: perf(1, "A", 1800, 1900), b: perf(2, "B", 1900, 2000), want: false},
		{name: "containment", a: perf(1, "A", 1800, 2300), b: perf(2, "B", 1900, 2000), want: true},
		{name: "identical slots", a: perf(1, "A", 1800, 1900), b: perf(2, "B", 1800, 1900), want: true},
		{name: "a unscheduled", a: perf(1, "E", 0, 0), b: perf(2, "B", 1800, 1900), want: false},
		{name: "b unscheduled with end", a: perf(1, "A", 1800, 1900), b: perf(2, "E", 0, 1850), want: false},
		{name: "missing end", a: perf(1, "A", 1800, 0), b: perf(2, "B", 1700, 1900), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_Scenarios(t *testing.T) {
	a := perf(1, "A", 2000, 2130)
	b := perf(2, "B", 2100, 2230)
	c := perf(3, "C", 1800, 1900)
	d := perf(4, "D", 1930, 2100)
	e := lineup.Performance{ID: 5, Name: "E"}

	tests := []struct {
		name        string
		input       []lineup.Performance
		wantPairs   [][2]string
		wantPrimary [2]string
	}{
		{name: "empty", input: nil, wantPairs: [][2]string{}},
		{name: "singleton", input: []lineup.Performance{a}, wantPairs: [][2]string{}},
		{name: "one overlapping pair", input: []lineup.Performance{a, b}, wantPairs: [][2]string{{"A", "B"}}, wantPrimary: [2]string{"A", "B"}},
		{name: "gap between sets", input: []lineup.Performance{c, d}, wantPairs: [][2]string{}},
		{name: "unscheduled never conflicts", input: []lineup.Performance{e, a, e, c}, wantPairs: [][2]string{}},
		{name: "three with one overlap", input: []lineup.Performance{c, a, b}, wantPairs: [][2]string{{"A", "B"}}, wantPrimary: [2]string{"A", "B"}},
		{
			name:        "discovery order is i then j",
			input:       []lineup.Performance{d, a, b, c},
			wantPairs:   [][2]string{{"D", "A"}, {"A", "B"}},
			wantPrimary: [2]string{"D", "A"},
		},
	}

	for dname, detect := range detectors {
		for _, tt := range tests {
			t.Run(dname+"/"+tt.name, func(t *testing.T) {
				r := detect(tt.input)

				if got := pairNames(r); !reflect.DeepEqual(got, tt.wantPairs) {
					t.Errorf("conflicts = %v, want %v", got, tt.wantPairs)
				}

				if len(tt.wantPairs) == 0 {
					if r.Primary != nil || r.Suggestion != "" || r.HasConflicts() {
						t.Errorf("expected no primary or suggestion, got %+v", r)
					}
					return
				}

				if r.Primary == nil {
					t.Fatal("expected primary conflict")
				}
				if got := [2]string{r.Primary.A.Name, r.Primary.B.Name}; got != tt.wantPrimary {
					t.Errorf("primary = %v, want %v", got, tt.wantPrimary)
				}
				if r.Suggestion != Suggest(*r.Primary) {
					t.Errorf("suggestion = %q", r.Suggestion)
				}
			})
		}
	}
}

func TestDetect_Idempotent(t *testing.T) {
	input := []lineup.Performance{perf(1, "A", 2000, 2130), perf(2, "B", 2100, 2230), perf(3, "C", 2115, 2200)}
	before := append([]lineup.Performance{}, input...)

	first := Detect(input)
	second := Detect(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Detect is not idempotent:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(input, before) {
		t.Error("Detect mutated its input")
	}
	if len(first.Conflicts) != 3 {
		t.Errorf("got %d conflicts, want 3", len(first.Conflicts))
	}
}

func TestDetectIndexed_MatchesPairwise(t *testing.T) {
	rng := rand.New(rand.NewSource(20260718))

	for round := 0; round < 200; round++ {
		n := rng.Intn(12)
		input := make([]lineup.Performance, n)
		for i := range input {
			start := (12 + rng.Intn(12)) * 100
			if rng.Intn(2) == 0 {
				start += 30
			}
			end := start + 30 + rng.Intn(4)*30
			switch rng.Intn(10) {
			case 0:
				start, end = 0, 0
			case 1:
				start, end = end, start // inverted slot
			case 2:
				end = 0
			}
			input[i] = perf(int64(i+1), string(rune('A'+i)), start, end)
		}

		want := Detect(input)
		got := DetectIndexed(input)
		if !reflect.DeepEqual(pairNames(got), pairNames(want)) {
			t.Fatalf("round %d: indexed %v != pairwise %v for %+v", round, pairNames(got), pairNames(want), input)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round %d: reports differ", round)
		}
	}
}

func TestDetectIndexed_DuplicateSlots(t *testing.T) {
	input := []lineup.Performance{
		perf(1, "A", 1800, 1900),
		perf(2, "B", 1800, 1900),
		perf(3, "C", 1800, 1900),
	}
	want := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}}
	if got := pairNames(DetectIndexed(input)); !reflect.DeepEqual(got, want) {
		t.Errorf("DetectIndexed() = %v, want %v", got, want)
	}
}

func TestDetectorFor(t *testing.T) {
	tests := []struct {
		name    string
		want    Detector
		wantErr bool
	}{
		{name: "", want: Pairwise{}},
		{name: DetectorPairwise, want: Pairwise{}},
		{name: DetectorIndexed, want: Indexed{}},
		{name: "sweep", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectorFor(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectorFor(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("DetectorFor(%q) = %T, want %T", tt.name, got, tt.want)
			}
		})
	}
}

func TestSuggestAndDescribe(t *testing.T) {
	c := Conflict{A: perf(1, "The Strokes", 2000, 2130), B: perf(2, "SZA", 2100, 2230)}

	want := "Split set: catch the first 30 minutes of The Strokes, then head over to SZA."
	if got := Suggest(c); got != want {
		t.Errorf("Suggest() = %q, want %q", got, want)
	}

	wantDesc := "The Strokes (8:00 PM - 9:30 PM) overlaps SZA (9:00 PM - 10:30 PM)"
	if got := Describe(c, Conventional); got != wantDesc {
		t.Errorf("Describe() = %q, want %q", got, wantDesc)
	}
}
