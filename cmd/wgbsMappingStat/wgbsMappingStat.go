package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func usage() {
	fmt.Print(
		"wgbsMappingStat - Tabulate Bismark paired-end mapping reports across WGBS samples.\n" +
			"Searches a directory tree (following symlinks) for report files by suffix,\n" +
			"takes variety and replicate from the 'variety_replicate_...' filename\n" +
			"convention, and writes one summary row per report.\n" +
			"Usage:\n" +
			"wgbsMappingStat [options] -d wgbs/ -o wgbs_summary.tsv\n\n")
	flag.PrintDefaults()
}

// reportKeys is the Bismark PE report header order, reproduced exactly so the
// summary columns line up across Bismark versions.
var reportKeys = []string{
	"Sequence pairs analysed in total",
	"Number of paired-end alignments with a unique best hit",
	"Mapping efficiency",
	"Sequence pairs with no alignments under any condition",
	"Sequence pairs did not map uniquely",
	"Sequence pairs which were discarded because genomic sequence could not be extracted",
	"CT/GA/CT",
	"GA/CT/CT",
	"GA/CT/GA",
	"CT/GA/GA",
	"Number of alignments to (merely theoretical) complementary strands being rejected in total",
	"Total number of C's analysed",
	"Total methylated C's in CpG context",
	"Total methylated C's in CHG context",
	"Total methylated C's in CHH context",
	"Total methylated C's in Unknown context",
	"Total unmethylated C's in CpG context",
	"Total unmethylated C's in CHG context",
	"Total unmethylated C's in CHH context",
	"Total unmethylated C's in Unknown context",
	"C methylated in CpG context",
	"C methylated in CHG context",
	"C methylated in CHH context",
	"C methylated in unknown context (CN or CHN)",
}

type sampleReport struct {
	variety   string
	replicate int
	path      string
	stats     map[string]string
}

func main() {
	dir := flag.String("d", "", "Root directory to search for Bismark reports.")
	suffix := flag.String("suffix", "bismark_bt2_PE_report.txt", "Report filename suffix to match.")
	output := flag.String("o", "stdout", "Output summary table.")
	logFile := flag.String("log", "", "Optional list of report paths included in the summary.")
	flag.Parse()

	if *dir == "" {
		usage()
		log.Fatal("ERROR: must input a search directory with -d")
	}

	wgbsMappingStat(*dir, *suffix, *output, *logFile)
}

func wgbsMappingStat(dir, suffix, output, logFile string) {
	candidates := findReports(dir, suffix)
	if len(candidates) == 0 {
		log.Fatalf("ERROR: no files matching *%s under %s", suffix, dir)
	}

	var reports []sampleReport
	for _, path := range candidates {
		variety, replicate, ok := parseReportName(filepath.Base(path))
		if !ok {
			log.Printf("WARNING: %s does not follow the variety_replicate_... naming rule, skipping\n", path)
			continue
		}
		stats, err := parseReport(path)
		if err != nil {
			log.Printf("WARNING: %s: %v, skipping\n", path, err)
			continue
		}
		if len(stats) == 0 {
			log.Printf("WARNING: %s has no stats, skipping\n", path)
			continue
		}
		reports = append(reports, sampleReport{variety: variety, replicate: replicate, path: path, stats: stats})
	}
	log.Printf("found %d matching files, parsed %d\n", len(candidates), len(reports))
	if len(reports) == 0 {
		log.Fatal("ERROR: no parseable reports")
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].variety != reports[j].variety {
			return reports[i].variety < reports[j].variety
		}
		return reports[i].replicate < reports[j].replicate
	})

	out := fileio.EasyCreate(output)
	fmt.Fprintf(out, "Variety\tReplicate\t%s\n", strings.Join(reportKeys, "\t"))
	for _, r := range reports {
		fmt.Fprintf(out, "%s\t%d", r.variety, r.replicate)
		for _, key := range reportKeys {
			val, ok := r.stats[key]
			if !ok {
				val = "N/A"
			}
			fmt.Fprintf(out, "\t%s", val)
		}
		fmt.Fprintln(out)
	}
	err := out.Close()
	exception.PanicOnErr(err)

	if logFile != "" {
		lf := fileio.EasyCreate(logFile)
		fmt.Fprintf(lf, "# Reports included in the summary: %d\n", len(reports))
		paths := make([]string, len(reports))
		for i := range reports {
			paths[i] = reports[i].path
		}
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Fprintln(lf, p)
		}
		err = lf.Close()
		exception.PanicOnErr(err)
	}
}

// findReports walks dir for files ending in suffix. Unlike filepath.WalkDir
// it follows directory symlinks, since WGBS runs are routinely linked into a
// shared results tree.
func findReports(dir, suffix string) []string {
	var found []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("WARNING: cannot read %s: %v\n", dir, err)
		return nil
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.Type()&fs.ModeSymlink != 0 {
			resolved, err := os.Stat(path)
			if err != nil {
				log.Printf("WARNING: broken link %s, skipping\n", path)
				continue
			}
			if resolved.IsDir() {
				found = append(found, findReports(path, suffix)...)
				continue
			}
			if strings.HasSuffix(entry.Name(), suffix) {
				found = append(found, path)
			}
			continue
		}
		if entry.IsDir() {
			found = append(found, findReports(path, suffix)...)
			continue
		}
		if strings.HasSuffix(entry.Name(), suffix) {
			found = append(found, path)
		}
	}
	return found
}

// parseReportName extracts variety and replicate from a
// "variety_replicate_..." filename.
func parseReportName(name string) (variety string, replicate int, ok bool) {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return "", 0, false
	}
	replicate, err := strconv.Atoi(parts[1])
	if err != nil || parts[0] == "" {
		return "", 0, false
	}
	return parts[0], replicate, true
}

// parseReport collects every "key:\tvalue" pair from a Bismark report,
// keeping values verbatim (percent signs included).
func parseReport(path string) (map[string]string, error) {
	stats := make(map[string]string)
	file := fileio.EasyOpen(path)
	var line string
	var done bool
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		parts := strings.SplitN(line, ":\t", 2)
		if len(parts) != 2 {
			continue
		}
		stats[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	err := file.Close()
	if err != nil {
		return nil, err
	}
	return stats, nil
}
