package windows

import (
	"fmt"
	"strings"
)

// MultiChromosomeError reports an aggregation batch spanning more than one
// chromosome. Batches must be split per chromosome before aggregation.
type MultiChromosomeError struct {
	Chroms []string
}

func (e MultiChromosomeError) Error() string {
	return fmt.Sprintf("aggregation batch spans %d chromosomes: %s", len(e.Chroms), strings.Join(e.Chroms, ","))
}

// InvalidLengthError reports a chromosome length that could not be resolved
// to a positive value.
type InvalidLengthError struct {
	Chrom  string
	Length int
}

func (e InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid length %d for chromosome %q", e.Length, e.Chrom)
}

// PositionOutOfRangeError reports a site position outside [1, chromLength].
type PositionOutOfRangeError struct {
	Chrom  string
	Pos    int
	Length int
}

func (e PositionOutOfRangeError) Error() string {
	return fmt.Sprintf("position %d on %s outside [1,%d]", e.Pos, e.Chrom, e.Length)
}
