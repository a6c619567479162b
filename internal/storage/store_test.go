package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/model"
)

const project = `
id: demo
entities:
  - id: cell
    aspects:
      - id: morph
        visualization:
          - {id: s, type: sphere, position: [1, 2, 3], radius: 1}
          - {id: c, type: cylinder, position: [0, 0, 0], distal: [0, 4, 0], radius_top: 1, radius_bottom: 1}
`

func frames() []Frame {
	return []Frame{
		{Step: 2, Positions: map[string]math32.Vector3{"a.b": math32.Vec3(1, 1, 1)}},
		{Step: 1, Positions: map[string]math32.Vector3{
			"a.b": math32.Vec3(0.5, -1, 2),
			"a.c": math32.Vec3(3, 0, 0),
		}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("demo", 50, frames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "demo_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Project != "demo" || meta.Steps != 2 || meta.Paths != 2 || meta.IntervalMs != 50 {
		t.Errorf("unexpected metadata %+v", meta)
	}

	loaded, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(loaded))
	}
	if loaded[0].Step != 1 || loaded[1].Step != 2 {
		t.Errorf("frames not in step order: %d, %d", loaded[0].Step, loaded[1].Step)
	}
	if got := loaded[0].Positions["a.b"]; got != math32.Vec3(0.5, -1, 2) {
		t.Errorf("expected (0.5,-1,2), got %v", got)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "runs"))

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list for missing dir, got %v, %v", runs, err)
	}

	if _, err := st.Save("one", 0, frames()); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save("two", 0, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "runs", "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Timestamp.Before(runs[1].Timestamp) {
		t.Error("expected newest first")
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestLoadFramesMalformed(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := os.MkdirAll(filepath.Join(dir, "bad"), 0755); err != nil {
		t.Fatal(err)
	}
	doc := "step,path,x,y,z\n1,a.b,zero,0,0\n"
	if err := os.WriteFile(filepath.Join(dir, "bad", framesFile), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadFrames("bad"); !errors.Is(err, ErrBadFrame) {
		t.Errorf("expected ErrBadFrame, got %v", err)
	}
}

func TestCaptureApply(t *testing.T) {
	p, err := model.Decode(strings.NewReader(project), nil)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := model.NewIndex(p.Entities...)
	if err != nil {
		t.Fatal(err)
	}

	f := Capture(0, p)
	if len(f.Positions) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(f.Positions))
	}
	sphere := "cell.morph.VisualizationTree.s"
	cyl := "cell.morph.VisualizationTree.c"
	if f.Positions[sphere] != math32.Vec3(1, 2, 3) {
		t.Errorf("unexpected capture %v", f.Positions[sphere])
	}

	next := Frame{Step: 1, Positions: map[string]math32.Vector3{
		sphere:    math32.Vec3(0, 0, 0),
		cyl:       math32.Vec3(1, 0, 0),
		"missing": math32.Vec3(9, 9, 9),
	}}
	if n := next.Apply(idx); n != 2 {
		t.Errorf("expected 2 applied, got %d", n)
	}
	leaf, _ := idx.Leaf(cyl)
	c := leaf.(*model.Cylinder)
	if c.Distal != math32.Vec3(1, 4, 0) {
		t.Errorf("cylinder should keep its shape, distal %v", c.Distal)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "r", Project: "demo", Steps: 2}
	if err := ExportJSON(&buf, meta, frames()); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Run.ID != "r" || len(got.Frames) != 2 {
		t.Errorf("unexpected export %+v", got)
	}
	if got.Frames[1]["a.c"] != [3]float32{3, 0, 0} {
		t.Errorf("unexpected position %v", got.Frames[1]["a.c"])
	}
}

func TestSynthesize(t *testing.T) {
	p, err := model.Decode(strings.NewReader(project), nil)
	if err != nil {
		t.Fatal(err)
	}
	frames := Synthesize(p, 25, 2)
	if len(frames) != 25 {
		t.Fatalf("expected 25 frames, got %d", len(frames))
	}

	base := Capture(0, p)
	for path, pos := range frames[0].Positions {
		if pos != base.Positions[path] {
			t.Errorf("frame 0 should match the model at %s", path)
		}
	}

	sphere := "cell.morph.VisualizationTree.s"
	moved := false
	for _, f := range frames[1:] {
		pos := f.Positions[sphere]
		if pos.X != 1 || pos.Z != 3 {
			t.Fatalf("only Y should change, got %v", pos)
		}
		if dy := pos.Y - 2; dy > 4.001 || dy < -4.001 {
			t.Fatalf("displacement %v exceeds twice the amplitude", dy)
		}
		if pos.Y != 2 {
			moved = true
		}
	}
	if !moved {
		t.Error("sphere never moved")
	}
}
