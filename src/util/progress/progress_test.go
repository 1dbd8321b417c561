package progress_test

import (
	"bytes"
	"strings"
	"testing"

	"volume-backup/src/util/progress"
)

func TestWriter_CountsLines(t *testing.T) {
	var out bytes.Buffer
	w := progress.NewWriter(&out, "db:/var/lib/db")
	for _, chunk := range []string{"/var/lib/db/\n/var/lib/db/a", "\n/var/lib/db/b\n"} {
		n, err := w.Write([]byte(chunk))
		if err != nil {
			t.Fatalf("write: %v", err)
		}
		if n != len(chunk) {
			t.Fatalf("wrote %d bytes, want %d", n, len(chunk))
		}
	}
	w.Done()
	if w.Files() != 3 {
		t.Fatalf("files = %d, want 3", w.Files())
	}
	if !strings.HasSuffix(out.String(), "[db:/var/lib/db] 3 files\n") {
		t.Fatalf("unexpected progress output: %q", out.String())
	}
}

func TestWriter_NilOut(t *testing.T) {
	w := progress.NewWriter(nil, "x")
	if _, err := w.Write([]byte("a\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Done()
	if w.Files() != 1 {
		t.Fatalf("files = %d, want 1", w.Files())
	}
}
