package shootout

import (
	"fmt"
	"io"
)

// Report prints one shootout line: the source name, its adjusted packet
// count, and its share of the best source as a percentage.
func Report(w io.Writer, name string, count int64, fraction float64) {
	fmt.Fprintf(w, "%s %d (%.2f%%)\n", name, count, fraction*100)
}
