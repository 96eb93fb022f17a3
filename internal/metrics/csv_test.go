package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shootout/internal/model"
)

func TestAppendCSV_WritesHeaderOnce(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "shootout.csv")

	s1 := model.Sample{Timestamp: time.Unix(1, 0).UTC(), Source: "wlan0", Count: 100, Fraction: 1}
	s2 := model.Sample{Timestamp: time.Unix(2, 0).UTC(), Source: "wlan1", Count: 50, Fraction: 0.5}

	if err := AppendCSV(path, []model.Sample{s1}); err != nil {
		t.Fatalf("AppendCSV #1: %v", err)
	}
	if err := AppendCSV(path, []model.Sample{s2}); err != nil {
		t.Fatalf("AppendCSV #2: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%d\n%s", len(lines), string(data))
	}
	if !strings.HasPrefix(lines[0], "timestamp,") {
		t.Fatalf("missing header: %q", lines[0])
	}
}

func TestReadCSV_RoundTrip(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "shootout.csv")

	in := []model.Sample{
		{Timestamp: time.Unix(10, 0).UTC(), Source: "wlan0", Count: 100, Fraction: 1},
		{Timestamp: time.Unix(10, 0).UTC(), Source: "wlan1", Count: 50, Fraction: 0.5},
	}
	if err := AppendCSV(path, in); err != nil {
		t.Fatalf("AppendCSV: %v", err)
	}

	out, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("samples=%d", len(out))
	}
	if out[0].Source != "wlan0" || out[0].Count != 100 || out[0].Fraction != 1 {
		t.Fatalf("sample=%+v", out[0])
	}
	if !out[1].Timestamp.Equal(in[1].Timestamp) {
		t.Fatalf("timestamp=%v", out[1].Timestamp)
	}
}
