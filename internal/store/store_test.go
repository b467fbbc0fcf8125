package store

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStorageError(t *testing.T) {
	inner := errors.New("connection refused")
	e := &StorageError{Op: "find recent", Err: inner}

	if !strings.Contains(e.Error(), "find recent") {
		t.Errorf("Error() = %q, want op name included", e.Error())
	}
	if !errors.Is(e, inner) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var se *StorageError
	if !errors.As(error(e), &se) {
		t.Error("errors.As should match *StorageError")
	}
}

func TestCutoff(t *testing.T) {
	t.Run("window is respected", func(t *testing.T) {
		got := cutoff(30)
		want := time.Now().UTC().AddDate(0, 0, -30)
		if got.After(want) {
			t.Errorf("cutoff(30) = %v, should not be after %v", got, want)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Errorf("cutoff should be date-only, got %v", got)
		}
	})

	t.Run("non-positive window clamps to one day", func(t *testing.T) {
		if got, want := cutoff(0), cutoff(1); !got.Equal(want) {
			t.Errorf("cutoff(0) = %v, want %v", got, want)
		}
	})
}
