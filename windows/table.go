package windows

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"

	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/methyl"
)

// missingValue marks zero-coverage windows in serialized tables. It is never
// written as 0: downstream consumers must be able to tell no data from 0%.
const missingValue = "NA"

// WriteTable writes windows as a tab-separated table. The header line starts
// with '#' so gonomics readers skip it transparently. The regionType column
// is emitted only when withRegion is set.
func WriteTable(w io.Writer, wins []Window, withRegion bool) {
	header := "#chromosome\tstart\tend\tcontext\ttotalCoverage\tavgMethylation"
	if withRegion {
		header += "\tregionType"
	}
	fmt.Fprintln(w, header)
	for i := range wins {
		avg := missingValue
		if wins[i].HasData() {
			avg = strconv.FormatFloat(wins[i].AvgMethylation, 'f', 4, 64)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\t%s", wins[i].Chrom, wins[i].Start, wins[i].End, wins[i].Context, wins[i].TotalCoverage, avg)
		if withRegion {
			fmt.Fprintf(w, "\t%s", wins[i].Region)
		}
		fmt.Fprintln(w)
	}
}

// ReadTable reads a table written by WriteTable. The regionType column is
// optional.
func ReadTable(filename string) ([]Window, error) {
	var wins []Window
	file := fileio.EasyOpen(filename)
	var line string
	var done bool
	lineNum := 0
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		lineNum++
		w, err := parseTableLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filename, lineNum, err)
		}
		wins = append(wins, w)
	}
	err := file.Close()
	exception.PanicOnErr(err)
	return wins, nil
}

func parseTableLine(line string) (Window, error) {
	var w Window
	col := strings.Split(line, "\t")
	if len(col) < 6 {
		return w, fmt.Errorf("expected at least 6 fields, got %d", len(col))
	}
	var err error
	w.Chrom = col[0]
	if w.Start, err = strconv.Atoi(col[1]); err != nil {
		return w, fmt.Errorf("bad start %q", col[1])
	}
	if w.End, err = strconv.Atoi(col[2]); err != nil {
		return w, fmt.Errorf("bad end %q", col[2])
	}
	w.Context = methyl.Context(col[3])
	if w.TotalCoverage, err = strconv.Atoi(col[4]); err != nil {
		return w, fmt.Errorf("bad coverage %q", col[4])
	}
	if col[5] == missingValue {
		w.AvgMethylation = math.NaN()
	} else if w.AvgMethylation, err = strconv.ParseFloat(col[5], 64); err != nil {
		return w, fmt.Errorf("bad avgMethylation %q", col[5])
	}
	if len(col) > 6 {
		w.Region = col[6]
	}
	if w.HasData() {
		w.Methylated = int(math.Round(float64(w.TotalCoverage) * w.AvgMethylation / 100))
	}
	return w, nil
}
