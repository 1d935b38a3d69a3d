package notation

import (
	"fmt"
	"strings"

	"go-cycles/pattern"
)

// RenderOnsets renders the onsets of the first cycles of p as a fixed
// table, one line per dispatched event. The `check` command prints
// this, and the golden tests pin it down.
func RenderOnsets(p Pat, cycles int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-16s %s\n", "onset", "whole", "event")
	arc := pattern.NewArc(pattern.FromInt(0), pattern.FromInt(int64(cycles)))
	for _, h := range p.Query(arc) {
		if !h.HasOnset() {
			continue
		}
		fmt.Fprintf(&b, "%-10s %-16s %s\n", h.Part.Start, h.Whole, h.Value)
	}
	return b.String()
}
