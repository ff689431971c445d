package methyl

import (
	"os"
	"path/filepath"
	"testing"
)

var cxReport = `Chr01	1	+	8	2	CG	CGA
Chr01	1999	-	5	5	CHG	CAG
Chr01	2001	+	0	10	CHH	CTT
Chr01	3999	+	10	0	CG	CGT
Chr01	bad	+	1	1	CG	CGA
Chr01	4200	+	1	x	CG	CGA
Chr01	4300	+	1	0	CNN	CNN
Chr02	7	+	1	1	CG	CGA
`

func writeTemp(t *testing.T, text string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "test.CX_report.txt")
	err := os.WriteFile(file, []byte(text), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return file
}

func TestReadSites(t *testing.T) {
	file := writeTemp(t, cxReport)
	sites, sum := ReadSites(file, DefaultColumnMap(), 0)
	if sum.Lines != 8 || sum.Sites != 5 || sum.Malformed != 3 {
		t.Error("wrong read summary", sum)
	}
	if len(sites) != 5 {
		t.Fatal("expected 5 sites, got", len(sites))
	}
	if sites[0].Chrom != "Chr01" || sites[0].Pos != 1 || sites[0].Strand != Plus || sites[0].Methylated != 8 || sites[0].Unmethylated != 2 || sites[0].Context != CG {
		t.Error("wrong first site", sites[0])
	}
	if sites[0].Coverage() != 10 {
		t.Error("coverage must be methylated+unmethylated", sites[0])
	}
	if sites[1].Strand != Minus || sites[1].Context != CHG {
		t.Error("wrong second site", sites[1])
	}
}

func TestReadSitesMinCoverage(t *testing.T) {
	file := writeTemp(t, cxReport)
	sites, sum := ReadSites(file, DefaultColumnMap(), 3)
	// Chr02 site has coverage 2 and drops out.
	if sum.LowCoverage != 1 || len(sites) != 4 {
		t.Error("minimum coverage filter failed", sum, len(sites))
	}
}

func TestGroupByChrom(t *testing.T) {
	file := writeTemp(t, cxReport)
	sites, _ := ReadSites(file, DefaultColumnMap(), 0)
	groups := GroupByChrom(sites)
	if len(groups["Chr01"]) != 4 || len(groups["Chr02"]) != 1 {
		t.Error("wrong grouping", len(groups["Chr01"]), len(groups["Chr02"]))
	}
	chroms := SortedChroms(groups)
	if len(chroms) != 2 || chroms[0] != "Chr01" || chroms[1] != "Chr02" {
		t.Error("wrong chromosome order", chroms)
	}
}

func TestParseColumnMap(t *testing.T) {
	cm, err := ParseColumnMap("chrom=2,pos=3,meth=5,unmeth=6")
	if err != nil {
		t.Fatal(err)
	}
	if cm.Chrom != 1 || cm.Pos != 2 || cm.Methylated != 4 || cm.Unmethylated != 5 {
		t.Error("wrong mapping", cm)
	}
	if cm.Strand != -1 || cm.Context != -1 {
		t.Error("omitted columns must be absent", cm)
	}

	if _, err = ParseColumnMap("chrom=1,pos=2"); err == nil {
		t.Error("missing count columns must be rejected")
	}
	if _, err = ParseColumnMap("chrom=0,pos=2,meth=3,unmeth=4"); err == nil {
		t.Error("column numbers are 1-based; 0 must be rejected")
	}
	if _, err = ParseColumnMap("nope=1,chrom=1,pos=2,meth=3,unmeth=4"); err == nil {
		t.Error("unknown column names must be rejected")
	}
}

func TestReadSitesWithoutStrandOrContext(t *testing.T) {
	file := writeTemp(t, "Chr03\t10\t4\t6\n")
	cm := ColumnMap{Chrom: 0, Pos: 1, Strand: -1, Methylated: 2, Unmethylated: 3, Context: -1}
	sites, sum := ReadSites(file, cm, 0)
	if sum.Sites != 1 || len(sites) != 1 {
		t.Fatal("expected 1 site", sum)
	}
	if sites[0].Strand != Unknown || sites[0].Context != "" {
		t.Error("absent columns should leave defaults", sites[0])
	}
}
