package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseReportName(t *testing.T) {
	variety, replicate, ok := parseReportName("Nipponbare_2_trimmed_bismark_bt2_PE_report.txt")
	if !ok || variety != "Nipponbare" || replicate != 2 {
		t.Error("wrong parse", variety, replicate, ok)
	}
	if _, _, ok = parseReportName("report.txt"); ok {
		t.Error("single-part names must be rejected")
	}
	if _, _, ok = parseReportName("Nipponbare_repA_report.txt"); ok {
		t.Error("non-numeric replicates must be rejected")
	}
}

func TestParseReport(t *testing.T) {
	text := "Bismark report for: reads_1.fq.gz and reads_2.fq.gz\n" +
		"Sequence pairs analysed in total:\t53288604\n" +
		"Mapping efficiency:\t81.3%\n" +
		"\n" +
		"Final Cytosine Methylation Report\n" +
		"=================================\n" +
		"C methylated in CpG context:\t91.6%\n"
	file := filepath.Join(t.TempDir(), "Nipponbare_1_bismark_bt2_PE_report.txt")
	err := os.WriteFile(file, []byte(text), 0644)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := parseReport(file)
	if err != nil {
		t.Fatal(err)
	}
	if stats["Sequence pairs analysed in total"] != "53288604" {
		t.Error("wrong count", stats)
	}
	// Percent signs stay verbatim.
	if stats["Mapping efficiency"] != "81.3%" || stats["C methylated in CpG context"] != "91.6%" {
		t.Error("values must be kept verbatim", stats)
	}
	if _, ok := stats["Final Cytosine Methylation Report"]; ok {
		t.Error("lines without a key:\\tvalue separator must be ignored")
	}
}

func TestFindReports(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "run1")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	match := filepath.Join(sub, "Nipponbare_1_bismark_bt2_PE_report.txt")
	if err := os.WriteFile(match, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	linked := filepath.Join(dir, "latest")
	if err := os.Symlink(sub, linked); err != nil {
		t.Fatal(err)
	}

	found := findReports(dir, "bismark_bt2_PE_report.txt")
	// Direct hit plus the same file through the directory symlink.
	if len(found) != 2 {
		t.Error("expected the report via both paths, got", found)
	}
}
