// Package methyl provides types and input parsing for per-cytosine
// methylation observations from whole-genome bisulfite sequencing.
package methyl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
)

// Strand is the strand of the cytosine a site was observed on.
type Strand byte

const (
	Plus    Strand = '+'
	Minus   Strand = '-'
	Unknown Strand = '.'
)

// Context is the sequence context of a cytosine site. It is carried through
// aggregation unchanged.
type Context string

const (
	CG  Context = "CG"
	CHG Context = "CHG"
	CHH Context = "CHH"
)

// Contexts lists all valid contexts in canonical output order.
var Contexts = []Context{CG, CHG, CHH}

// Site is one per-base methylation observation.
// Pos is 1-based.
type Site struct {
	Chrom        string
	Pos          int
	Strand       Strand
	Methylated   int
	Unmethylated int
	Context      Context
}

// Coverage returns the total read count observed at the site.
func (s Site) Coverage() int {
	return s.Methylated + s.Unmethylated
}

// MalformedRecordError reports a single unparseable input row. Callers
// normally count and skip these rather than aborting the whole file.
type MalformedRecordError struct {
	File   string
	Line   int
	Reason string
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record in %s line %d: %s", e.File, e.Line, e.Reason)
}

// ColumnMap maps the minimally required fields onto 0-based column indices of
// a tab-separated input. Upstream tools disagree on column order, so the
// mapping lives here at the boundary and never inside the aggregator.
type ColumnMap struct {
	Chrom        int
	Pos          int
	Strand       int // -1 if the input carries no strand column
	Methylated   int
	Unmethylated int
	Context      int // -1 if the input carries no context column
}

// DefaultColumnMap matches the Bismark cytosine (CX) report:
// chrom, pos, strand, count methylated, count unmethylated, context, tricontext.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{Chrom: 0, Pos: 1, Strand: 2, Methylated: 3, Unmethylated: 4, Context: 5}
}

func (cm ColumnMap) minFields() int {
	m := cm.Chrom
	for _, i := range []int{cm.Pos, cm.Strand, cm.Methylated, cm.Unmethylated, cm.Context} {
		if i > m {
			m = i
		}
	}
	return m + 1
}

// ParseColumnMap parses a user supplied mapping of the form
// "chrom=1,pos=2,strand=3,meth=4,unmeth=5,context=6" with 1-based column
// numbers. Omitted strand/context columns default to absent.
func ParseColumnMap(s string) (ColumnMap, error) {
	cm := ColumnMap{Chrom: -1, Pos: -1, Strand: -1, Methylated: -1, Unmethylated: -1, Context: -1}
	for _, field := range strings.Split(s, ",") {
		parts := strings.SplitN(field, "=", 2)
		if len(parts) != 2 {
			return cm, fmt.Errorf("bad column assignment %q", field)
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 1 {
			return cm, fmt.Errorf("bad column number %q", parts[1])
		}
		switch parts[0] {
		case "chrom":
			cm.Chrom = idx - 1
		case "pos":
			cm.Pos = idx - 1
		case "strand":
			cm.Strand = idx - 1
		case "meth":
			cm.Methylated = idx - 1
		case "unmeth":
			cm.Unmethylated = idx - 1
		case "context":
			cm.Context = idx - 1
		default:
			return cm, fmt.Errorf("unknown column name %q", parts[0])
		}
	}
	if cm.Chrom == -1 || cm.Pos == -1 || cm.Methylated == -1 || cm.Unmethylated == -1 {
		return cm, fmt.Errorf("column map %q must assign chrom, pos, meth, and unmeth", s)
	}
	return cm, nil
}

// ReadSummary reports what happened while reading one input file. Skipped
// records are counted, never silently dropped.
type ReadSummary struct {
	Lines       int
	Sites       int
	Malformed   int
	LowCoverage int
}

// ReadSites reads all sites from a tab-separated file using the supplied
// column mapping. Rows with coverage below minCoverage are excluded and
// counted; minCoverage <= 0 keeps everything. Malformed rows are counted and
// skipped. Lines beginning with '#' are ignored.
func ReadSites(filename string, cm ColumnMap, minCoverage int) ([]Site, ReadSummary) {
	var sites []Site
	var sum ReadSummary
	file := fileio.EasyOpen(filename)
	var line string
	var done bool
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		sum.Lines++
		s, err := parseSite(line, cm, filename, sum.Lines)
		if err != nil {
			sum.Malformed++
			continue
		}
		if minCoverage > 0 && s.Coverage() < minCoverage {
			sum.LowCoverage++
			continue
		}
		sites = append(sites, s)
		sum.Sites++
	}
	err := file.Close()
	exception.PanicOnErr(err)
	return sites, sum
}

func parseSite(line string, cm ColumnMap, filename string, lineNum int) (Site, error) {
	var s Site
	col := strings.Split(line, "\t")
	if len(col) < cm.minFields() {
		return s, MalformedRecordError{File: filename, Line: lineNum, Reason: fmt.Sprintf("expected at least %d fields, got %d", cm.minFields(), len(col))}
	}
	s.Chrom = col[cm.Chrom]
	if s.Chrom == "" {
		return s, MalformedRecordError{File: filename, Line: lineNum, Reason: "empty chromosome"}
	}
	var err error
	s.Pos, err = strconv.Atoi(col[cm.Pos])
	if err != nil {
		return s, MalformedRecordError{File: filename, Line: lineNum, Reason: "non-numeric position " + col[cm.Pos]}
	}
	s.Methylated, err = strconv.Atoi(col[cm.Methylated])
	if err != nil || s.Methylated < 0 {
		return s, MalformedRecordError{File: filename, Line: lineNum, Reason: "bad methylated count " + col[cm.Methylated]}
	}
	s.Unmethylated, err = strconv.Atoi(col[cm.Unmethylated])
	if err != nil || s.Unmethylated < 0 {
		return s, MalformedRecordError{File: filename, Line: lineNum, Reason: "bad unmethylated count " + col[cm.Unmethylated]}
	}
	s.Strand = Unknown
	if cm.Strand != -1 {
		switch col[cm.Strand] {
		case "+":
			s.Strand = Plus
		case "-":
			s.Strand = Minus
		}
	}
	if cm.Context != -1 {
		s.Context, err = parseContext(col[cm.Context])
		if err != nil {
			return s, MalformedRecordError{File: filename, Line: lineNum, Reason: err.Error()}
		}
	}
	return s, nil
}

func parseContext(s string) (Context, error) {
	switch s {
	case "CG", "CpG":
		return CG, nil
	case "CHG":
		return CHG, nil
	case "CHH":
		return CHH, nil
	}
	return "", fmt.Errorf("unknown context %q", s)
}

// GroupByChrom splits sites into per-chromosome batches. Each batch is an
// independent unit of work for the aggregator.
func GroupByChrom(sites []Site) map[string][]Site {
	groups := make(map[string][]Site)
	for i := range sites {
		groups[sites[i].Chrom] = append(groups[sites[i].Chrom], sites[i])
	}
	return groups
}

// SortedChroms returns the chromosome names of a grouping in lexical order
// for deterministic output.
func SortedChroms(groups map[string][]Site) []string {
	chroms := make([]string, 0, len(groups))
	for c := range groups {
		chroms = append(chroms, c)
	}
	slices.Sort(chroms)
	return chroms
}
