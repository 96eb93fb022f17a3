package shootout

import (
	"bytes"
	"testing"
)

func TestReport_Format(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Report(&buf, "wlan0", 1523, 0.8432)
	if got := buf.String(); got != "wlan0 1523 (84.32%)\n" {
		t.Fatalf("line=%q", got)
	}

	buf.Reset()
	Report(&buf, "wlan1", 0, 0)
	if got := buf.String(); got != "wlan1 0 (0.00%)\n" {
		t.Fatalf("line=%q", got)
	}

	buf.Reset()
	Report(&buf, "wlan2", 100, 1)
	if got := buf.String(); got != "wlan2 100 (100.00%)\n" {
		t.Fatalf("line=%q", got)
	}
}
