// Package windows bins per-base methylation observations into fixed-width,
// non-overlapping genomic windows and computes a coverage-weighted
// methylation percentage per window.
package windows

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/methyl"
)

// DefaultWidth is the window width in base pairs used throughout the
// centromere methylation analysis.
const DefaultWidth = 2000

// Window is one fixed-width span of a chromosome. Start and End are 1-based
// inclusive. AvgMethylation is NaN when TotalCoverage is zero: no data is not
// the same as 0% methylation.
type Window struct {
	Chrom          string
	Start          int
	End            int
	Context        methyl.Context
	TotalCoverage  int
	Methylated     int
	AvgMethylation float64
	Region         string // optional centromere label, empty when unclassified
}

// HasData reports whether any coverage was observed in the window.
func (w Window) HasData() bool {
	return w.TotalCoverage > 0
}

// GetChrom implements the gonomics interval.Interval interface.
func (w Window) GetChrom() string {
	return w.Chrom
}

// GetChromStart implements the gonomics interval.Interval interface. The raw
// 1-based start is used so that tree queries apply the strict overlap rule:
// a window abutting an interval boundary does not overlap it.
func (w Window) GetChromStart() int {
	return w.Start
}

// GetChromEnd implements the gonomics interval.Interval interface.
func (w Window) GetChromEnd() int {
	return w.End
}

// Span is one window boundary pair generated by Tile.
type Span struct {
	Start int
	End   int
}

// Tile generates the boundaries of fixed-width windows covering [1,
// chromLength] with no gaps and no overlaps. The last window is truncated to
// the chromosome length. Inputs must be positive.
func Tile(chromLength, width int) []Span {
	spans := make([]Span, 0, (chromLength+width-1)/width)
	for start := 1; start <= chromLength; start += width {
		end := start + width - 1
		if end > chromLength {
			end = chromLength
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans
}

// Index returns the index of the window containing a 1-based position.
func Index(pos, width int) int {
	return (pos - 1) / width
}

// Options control one aggregation batch. The zero ChromLength derives the
// length from the maximum observed position.
type Options struct {
	Width          int
	ChromLength    int
	SkipOutOfRange bool // skip-and-count out-of-range sites instead of aborting the batch
}

// Summary reports what one aggregation batch did, including how many sites
// were skipped so data loss is never invisible.
type Summary struct {
	Chrom       string
	ChromLength int
	Sites       int
	OutOfRange  int
}

// Aggregate bins one chromosome's sites into fixed-width windows,
// accumulating coverage and methylated counts per window and context class.
// The returned windows cover the full tiling for every context present in
// the input, ordered by context then start.
func Aggregate(sites []methyl.Site, opt Options) ([]Window, Summary, error) {
	var sum Summary
	if opt.Width <= 0 {
		return nil, sum, fmt.Errorf("window width must be positive, got %d", opt.Width)
	}

	chrom, err := batchChrom(sites)
	if err != nil {
		return nil, sum, err
	}
	sum.Chrom = chrom

	length := opt.ChromLength
	if length == 0 {
		for i := range sites {
			if sites[i].Pos > length {
				length = sites[i].Pos
			}
		}
	}
	if length <= 0 {
		return nil, sum, InvalidLengthError{Chrom: chrom, Length: length}
	}
	sum.ChromLength = length

	spans := Tile(length, opt.Width)
	type acc struct {
		cov  []int
		meth []int
	}
	accs := make(map[methyl.Context]*acc)

	for i := range sites {
		s := sites[i]
		if s.Pos < 1 || s.Pos > length {
			if !opt.SkipOutOfRange {
				return nil, sum, PositionOutOfRangeError{Chrom: chrom, Pos: s.Pos, Length: length}
			}
			sum.OutOfRange++
			continue
		}
		a, ok := accs[s.Context]
		if !ok {
			a = &acc{cov: make([]int, len(spans)), meth: make([]int, len(spans))}
			accs[s.Context] = a
		}
		idx := Index(s.Pos, opt.Width)
		a.cov[idx] += s.Coverage()
		a.meth[idx] += s.Methylated
		sum.Sites++
	}

	// Inputs without a context column accumulate under the empty context and
	// are emitted first.
	contexts := make([]methyl.Context, 0, len(accs))
	if _, ok := accs[""]; ok {
		contexts = append(contexts, "")
	}
	for _, c := range methyl.Contexts {
		if _, ok := accs[c]; ok {
			contexts = append(contexts, c)
		}
	}

	var wins []Window
	for _, context := range contexts {
		a := accs[context]
		for i, span := range spans {
			w := Window{
				Chrom:         chrom,
				Start:         span.Start,
				End:           span.End,
				Context:       context,
				TotalCoverage: a.cov[i],
				Methylated:    a.meth[i],
			}
			if w.TotalCoverage > 0 {
				w.AvgMethylation = 100 * float64(w.Methylated) / float64(w.TotalCoverage)
			} else {
				w.AvgMethylation = math.NaN()
			}
			wins = append(wins, w)
		}
	}
	return wins, sum, nil
}

func batchChrom(sites []methyl.Site) (string, error) {
	if len(sites) == 0 {
		return "", nil
	}
	chrom := sites[0].Chrom
	var extra []string
	for i := range sites {
		if sites[i].Chrom != chrom && !slices.Contains(extra, sites[i].Chrom) {
			extra = append(extra, sites[i].Chrom)
		}
	}
	if len(extra) > 0 {
		return "", MultiChromosomeError{Chroms: append([]string{chrom}, extra...)}
	}
	return chrom, nil
}
