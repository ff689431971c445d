// Package genome resolves chromosome lengths from index files so the last
// window of each chromosome can be truncated accurately.
package genome

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/chromInfo"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Lengths stores the length of each reference sequence for lookup by name.
type Lengths struct {
	chroms  []chromInfo.ChromInfo
	nameMap map[string]int // maps chr name to index in chroms
}

// String method for Lengths enables easy writing with the fmt package.
func (l Lengths) String() string {
	answer := new(strings.Builder)
	for i := range l.chroms {
		answer.WriteString(fmt.Sprintf("%s\t%d\n", l.chroms[i].Name, l.chroms[i].Size))
	}
	return answer.String()
}

// Size returns the length of chr and whether chr is present in the table.
func (l Lengths) Size(chr string) (int, bool) {
	i, ok := l.nameMap[chr]
	if !ok {
		return 0, false
	}
	return l.chroms[i].Size, true
}

// Chroms returns the reference sequences in file order.
func (l Lengths) Chroms() []chromInfo.ChromInfo {
	return l.chroms
}

// ReadLengths reads chromosome lengths from a samtools faidx index (5
// columns) or a plain chrom.sizes table (2 columns). Only the name and length
// columns are used.
func ReadLengths(filename string) Lengths {
	file := fileio.EasyOpen(filename)
	var answer Lengths
	var curr chromInfo.ChromInfo
	var line string
	var col []string
	var done bool
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col = strings.Split(line, "\t")
		if len(col) != 2 && len(col) != 5 {
			log.Fatalf("ERROR: malformed length table: %s\nexpected 2 (chrom.sizes) or 5 (.fai) columns on line:\n%s\n", filename, line)
		}

		curr.Name = col[0]
		curr.Size, err = strconv.Atoi(col[1])
		exception.PanicOnErr(err)
		if curr.Size <= 0 {
			log.Fatalf("ERROR: non-positive length for %s in %s\n", curr.Name, filename)
		}

		answer.chroms = append(answer.chroms, curr)
	}

	err = file.Close()
	exception.PanicOnErr(err)

	answer.nameMap = make(map[string]int)
	for i := range answer.chroms {
		answer.nameMap[answer.chroms[i].Name] = i
	}
	return answer
}
