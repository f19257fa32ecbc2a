package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/peakform/recohub/internal/domain"
)

type blob struct {
	Rows []int64
	Note string
}

func TestHolder_GetBeforePublish(t *testing.T) {
	h := NewHolder[blob]("test_blob")
	if h.Loaded() {
		t.Error("fresh holder must not report loaded")
	}
	_, err := h.Get()
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHolder_PublishSwaps(t *testing.T) {
	h := NewHolder[blob]("test_blob")

	first := &blob{Note: "first"}
	h.Publish(first)
	got, err := h.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != first {
		t.Error("Get must return the published pointer")
	}

	second := &blob{Note: "second"}
	h.Publish(second)
	got, err = h.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != second {
		t.Error("Publish must replace the previous artifact")
	}
	if !h.Loaded() {
		t.Error("holder must report loaded after publish")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := &blob{Rows: []int64{1, 2, 3}, Note: "round trip"}

	if err := Save(dir, "test_blob", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load[blob](dir, "test_blob")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Note != in.Note || len(out.Rows) != 3 || out.Rows[2] != 3 {
		t.Errorf("loaded %+v, want %+v", out, in)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load[blob](t.TempDir(), "never_saved")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_blob.gob")
	if err := os.WriteFile(path, []byte("not gob data"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err := Load[blob](dir, "test_blob")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, "test_blob", &blob{Note: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "test_blob.gob.tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Error("temp file must not survive a successful save")
	}
}
