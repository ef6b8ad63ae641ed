package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleRun() (RunMetadata, []Sample) {
	meta := RunMetadata{
		Preset:     "dipole",
		Frames:     3,
		Canvas:     Canvas{Width: 960, Height: 640},
		Mode:       "electric",
		Charges:    2,
		Respawns:   1,
		FinalSpeed: 0.25,
	}
	traj := []Sample{
		{Frame: 0, X: 560, Y: 280, VX: 0.1, VY: -0.05, Speed: 0.111803},
		{Frame: 1, X: 560.1, Y: 279.95, VX: 0.2, VY: -0.1, Speed: 0.223607},
		{Frame: 2, X: 480, Y: 320, VX: 0.25, VY: 0, Speed: 0.25},
	}
	return meta, traj
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir(), nil)
	st.now = func() time.Time { return time.Unix(1700000000, 0) }

	meta, traj := sampleRun()
	runID, err := st.Save(meta, traj)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != "dipole_1700000000" {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Preset != "dipole" || loaded.Respawns != 1 || loaded.Canvas.Width != 960 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if !loaded.Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("timestamp: got %v", loaded.Timestamp)
	}

	got, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(got) != len(traj) {
		t.Fatalf("expected %d samples, got %d", len(traj), len(got))
	}
	for i := range traj {
		if got[i] != traj[i] {
			t.Errorf("sample %d: got %+v, want %+v", i, got[i], traj[i])
		}
	}
}

func TestStoreSameSecondGetsSuffix(t *testing.T) {
	st := New(t.TempDir(), nil)
	st.now = func() time.Time { return time.Unix(1700000000, 0) }

	meta, traj := sampleRun()
	first, err := st.Save(meta, traj)
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.Save(meta, traj)
	if err != nil {
		t.Fatal(err)
	}
	if first == second || second != first+"_2" {
		t.Errorf("expected distinct ids, got %q and %q", first, second)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, nil)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: %v, %v", runs, err)
	}

	meta, traj := sampleRun()
	for _, ts := range []int64{1700000200, 1700000100} {
		st.now = func() time.Time { return time.Unix(ts, 0) }
		if _, err := st.Save(meta, traj); err != nil {
			t.Fatal(err)
		}
	}
	// A stray directory without metadata is ignored.
	if err := os.Mkdir(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "dipole_1700000100" {
		t.Errorf("expected oldest first, got %s", runs[0].ID)
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir(), nil)
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrajectory("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("trajectory: expected ErrRunNotFound, got %v", err)
	}
}

func TestCSVHeaderAndMalformedRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "frame,x,y,vx,vy,speed" {
		t.Errorf("header: got %q", got)
	}

	if _, err := ReadCSV(strings.NewReader("frame,x,y,vx,vy,speed\n1,a,2,3,4,5\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestExportJSON(t *testing.T) {
	meta, traj := sampleRun()
	meta.ID = "dipole_1"

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, traj); err != nil {
		t.Fatal(err)
	}
	var back Export
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != "dipole_1" || len(back.Trajectory) != 3 || back.Trajectory[2].Speed != 0.25 {
		t.Errorf("unexpected export %+v", back)
	}
}
