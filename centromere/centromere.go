// Package centromere classifies genomic windows by containment within
// centromeric intervals.
package centromere

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/interval"

	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/windows"
)

// Region labels written to the regionType column.
const (
	Centromere    = "Centromere"
	NonCentromere = "Non-Centromere"
)

// Interval is one centromeric span for a species/haplotype. Start and End are
// 1-based inclusive, matching the window coordinate system.
type Interval struct {
	Chrom     string
	Start     int
	End       int
	Species   string
	Haplotype string
}

// GetChrom implements the gonomics interval.Interval interface.
func (iv Interval) GetChrom() string {
	return iv.Chrom
}

// GetChromStart implements the gonomics interval.Interval interface. Raw
// 1-based bounds are deliberate: with both windows and intervals fed to the
// tree this way, the overlap test is window.End > interval.Start &&
// window.Start < interval.End, so boundary-abutting windows do not classify
// as centromeric.
func (iv Interval) GetChromStart() int {
	return iv.Start
}

// GetChromEnd implements the gonomics interval.Interval interface.
func (iv Interval) GetChromEnd() int {
	return iv.End
}

// ReadIntervals reads a tab-separated centromere table with columns
// chrom, haplotype, start, end and optionally species. Lines beginning with
// '#' are skipped.
func ReadIntervals(filename string) ([]Interval, error) {
	var ivs []Interval
	file := fileio.EasyOpen(filename)
	var line string
	var done bool
	lineNum := 0
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		lineNum++
		col := strings.Split(line, "\t")
		if len(col) < 4 {
			return nil, fmt.Errorf("%s line %d: expected at least 4 fields, got %d", filename, lineNum, len(col))
		}
		var iv Interval
		var err error
		iv.Chrom = col[0]
		iv.Haplotype = col[1]
		if iv.Start, err = strconv.Atoi(col[2]); err != nil {
			return nil, fmt.Errorf("%s line %d: bad start %q", filename, lineNum, col[2])
		}
		if iv.End, err = strconv.Atoi(col[3]); err != nil {
			return nil, fmt.Errorf("%s line %d: bad end %q", filename, lineNum, col[3])
		}
		if len(col) > 4 {
			iv.Species = col[4]
		}
		ivs = append(ivs, iv)
	}
	err := file.Close()
	exception.PanicOnErr(err)
	return ivs, nil
}

// Classifier answers containment queries against a fixed interval set. The
// intervals are indexed once so classifying n windows against m intervals
// costs n log m, not n*m.
type Classifier struct {
	tree map[string]*interval.IntervalNode
}

// NewClassifier indexes the intervals matching haplotype. An empty haplotype
// keeps every interval. A classifier over zero intervals is valid and labels
// everything Non-Centromere.
func NewClassifier(ivs []Interval, haplotype string) *Classifier {
	var kept []interval.Interval
	for i := range ivs {
		if haplotype != "" && ivs[i].Haplotype != haplotype {
			continue
		}
		kept = append(kept, ivs[i])
	}
	c := &Classifier{}
	if len(kept) > 0 {
		c.tree = interval.BuildTree(kept)
	}
	return c
}

// Label returns Centromere if any indexed interval strictly overlaps the
// window, otherwise Non-Centromere. Chromosomes absent from the interval set
// (unplaced scaffolds and the like) are Non-Centromere, never an error.
func (c *Classifier) Label(w windows.Window) string {
	if c.tree == nil {
		return NonCentromere
	}
	if _, ok := c.tree[w.GetChrom()]; !ok {
		return NonCentromere
	}
	if len(interval.Query(c.tree, w, "any")) > 0 {
		return Centromere
	}
	return NonCentromere
}

// Annotate fills the Region field of every window in place.
func (c *Classifier) Annotate(wins []windows.Window) {
	for i := range wins {
		wins[i].Region = c.Label(wins[i])
	}
}
