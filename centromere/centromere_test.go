package centromere

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/methyl"
	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/windows"
)

func win(chrom string, start, end int) windows.Window {
	return windows.Window{Chrom: chrom, Start: start, End: end, Context: methyl.CG}
}

func TestLabelStrictOverlap(t *testing.T) {
	ivs := []Interval{{Chrom: "Chr01", Start: 4000, End: 9000, Species: "O. sativa", Haplotype: "hap1"}}
	c := NewClassifier(ivs, "hap1")

	cases := []struct {
		w    windows.Window
		want string
	}{
		{win("Chr01", 5000, 6000), Centromere},      // contained
		{win("Chr01", 3500, 4500), Centromere},      // spans interval start
		{win("Chr01", 8500, 9500), Centromere},      // spans interval end
		{win("Chr01", 1, 2000), NonCentromere},      // disjoint left
		{win("Chr01", 10001, 12000), NonCentromere}, // disjoint right
		{win("Chr01", 2001, 4000), NonCentromere},   // window.End == interval.Start: abutting, not overlap
		{win("Chr01", 9000, 10000), NonCentromere},  // window.Start == interval.End: abutting, not overlap
		{win("Chr02", 5000, 6000), NonCentromere},   // chromosome without annotation
	}
	for _, c2 := range cases {
		if got := c.Label(c2.w); got != c2.want {
			t.Errorf("window [%d,%d] on %s: got %s, want %s", c2.w.Start, c2.w.End, c2.w.Chrom, got, c2.want)
		}
	}
}

func TestLabelHaplotypeFilter(t *testing.T) {
	ivs := []Interval{
		{Chrom: "Chr01", Start: 1000, End: 2000, Haplotype: "hap1"},
		{Chrom: "Chr01", Start: 5000, End: 6000, Haplotype: "hap2"},
	}
	c := NewClassifier(ivs, "hap2")
	if c.Label(win("Chr01", 1200, 1800)) != NonCentromere {
		t.Error("hap1 interval must not classify under hap2")
	}
	if c.Label(win("Chr01", 5200, 5800)) != Centromere {
		t.Error("hap2 interval must classify under hap2")
	}

	both := NewClassifier(ivs, "")
	if both.Label(win("Chr01", 1200, 1800)) != Centromere || both.Label(win("Chr01", 5200, 5800)) != Centromere {
		t.Error("empty haplotype keeps every interval")
	}
}

func TestLabelNoIntervals(t *testing.T) {
	c := NewClassifier(nil, "hap1")
	if c.Label(win("scaffold_12", 1, 2000)) != NonCentromere {
		t.Error("zero intervals is Non-Centromere, never an error")
	}
}

func TestAnnotate(t *testing.T) {
	ivs := []Interval{{Chrom: "Chr01", Start: 1000, End: 3000, Haplotype: "hap1"}}
	c := NewClassifier(ivs, "hap1")
	wins := []windows.Window{win("Chr01", 1, 2000), win("Chr01", 4001, 6000)}
	c.Annotate(wins)
	if wins[0].Region != Centromere || wins[1].Region != NonCentromere {
		t.Error("wrong annotation", wins[0].Region, wins[1].Region)
	}
}

func TestReadIntervals(t *testing.T) {
	text := "#chrom\thap\tstart\tend\tspecies\n" +
		"Chr01\thap1\t13000000\t16500000\tO. sativa\n" +
		"Chr02\thap1\t11200000\t14100000\n"
	file := filepath.Join(t.TempDir(), "centromeres.tsv")
	err := os.WriteFile(file, []byte(text), 0644)
	if err != nil {
		t.Fatal(err)
	}
	ivs, err := ReadIntervals(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(ivs) != 2 {
		t.Fatal("expected 2 intervals, got", len(ivs))
	}
	if ivs[0].Chrom != "Chr01" || ivs[0].Haplotype != "hap1" || ivs[0].Start != 13000000 || ivs[0].End != 16500000 || ivs[0].Species != "O. sativa" {
		t.Error("wrong first interval", ivs[0])
	}
	if ivs[1].Species != "" {
		t.Error("species column is optional", ivs[1])
	}

	bad := filepath.Join(t.TempDir(), "bad.tsv")
	err = os.WriteFile(bad, []byte("Chr01\thap1\tnope\t100\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = ReadIntervals(bad); err == nil {
		t.Error("non-numeric start must be an error")
	}
}
