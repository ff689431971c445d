// Package relpos normalizes window coordinates to positions relative to the
// start of each chromosome's region, for plotting centromere profiles on a
// shared axis.
package relpos

import (
	"sort"

	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/windows"
)

// RelWindow is a window with its position relative to the first window of the
// same chromosome group. RelPos is in base pairs, RelPosKb in kilobases.
type RelWindow struct {
	windows.Window
	RelPos   int
	RelPosKb float64
}

// Normalize computes per-chromosome relative positions: relPos = start -
// min(start over the same chromosome). The minimum is recomputed per
// chromosome group, never shared across groups. Output is ordered by
// chromosome, then start, then context.
func Normalize(wins []windows.Window) []RelWindow {
	minStart := make(map[string]int)
	for i := range wins {
		m, ok := minStart[wins[i].Chrom]
		if !ok || wins[i].Start < m {
			minStart[wins[i].Chrom] = wins[i].Start
		}
	}

	out := make([]RelWindow, 0, len(wins))
	for i := range wins {
		rel := wins[i].Start - minStart[wins[i].Chrom]
		out = append(out, RelWindow{
			Window:   wins[i],
			RelPos:   rel,
			RelPosKb: float64(rel) / 1000,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Chrom != out[j].Chrom {
			return out[i].Chrom < out[j].Chrom
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Context < out[j].Context
	})
	return out
}
