package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/centromere"
	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/genome"
	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/methyl"
	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/windows"
)

func usage() {
	fmt.Print(
		"methylWindows - Aggregate per-cytosine methylation calls into fixed-width genomic windows.\n" +
			"Reads a Bismark cytosine (CX) report and writes a window table with\n" +
			"coverage-weighted methylation percentages, optionally labelled by\n" +
			"centromere containment.\n" +
			"Usage:\n" +
			"methylWindows [options] -i sample.CX_report.txt.gz\n\n")
	flag.PrintDefaults()
}

func main() {
	input := flag.String("i", "", "Input cytosine report. May be gzipped.")
	output := flag.String("o", "stdout", "Output window table.")
	width := flag.Int("w", windows.DefaultWidth, "Window width in bp.")
	genomeFile := flag.String("g", "", "Chromosome lengths as .fai or chrom.sizes. If absent, each chromosome length is taken as the maximum observed position.")
	centromereFile := flag.String("c", "", "Centromere interval table (chrom, haplotype, start, end[, species]). Enables the regionType column.")
	haplotype := flag.String("hap", "", "Restrict centromere intervals to this haplotype.")
	contextFilter := flag.String("context", "all", "Restrict aggregation to one context: CG, CHG, CHH, or all.")
	minCoverage := flag.Int("minCoverage", 0, "Exclude sites with coverage below this value before aggregation.")
	columns := flag.String("columns", "", "Custom column mapping, e.g. 'chrom=1,pos=2,strand=3,meth=4,unmeth=5,context=6'. Default matches the Bismark CX report.")
	skipOutOfRange := flag.Bool("skipOutOfRange", false, "Skip and count sites outside [1, chromLength] instead of aborting the chromosome.")
	workers := flag.Int("workers", 1, "Number of chromosomes to aggregate concurrently.")
	flag.Parse()

	if *input == "" {
		usage()
		log.Fatal("ERROR: must input a cytosine report with -i")
	}
	if *width <= 0 {
		log.Fatalf("ERROR: window width must be positive, got %d", *width)
	}
	if *workers < 1 {
		log.Fatalf("ERROR: workers must be at least 1, got %d", *workers)
	}
	switch *contextFilter {
	case "all", "CG", "CHG", "CHH":
	default:
		log.Fatalf("ERROR: -context must be CG, CHG, CHH, or all, got %q", *contextFilter)
	}

	cm := methyl.DefaultColumnMap()
	if *columns != "" {
		var err error
		cm, err = methyl.ParseColumnMap(*columns)
		exception.PanicOnErr(err)
	}

	methylWindows(*input, *output, *genomeFile, *centromereFile, *haplotype, *contextFilter, cm, *width, *minCoverage, *workers, *skipOutOfRange)
}

func methylWindows(input, output, genomeFile, centromereFile, haplotype, contextFilter string, cm methyl.ColumnMap, width, minCoverage, workers int, skipOutOfRange bool) {
	sites, rs := methyl.ReadSites(input, cm, minCoverage)
	log.Printf("%s: %d lines, %d sites kept, %d malformed, %d below coverage %d\n", input, rs.Lines, rs.Sites, rs.Malformed, rs.LowCoverage, minCoverage)

	if contextFilter != "all" {
		sites = filterContext(sites, methyl.Context(contextFilter))
	}

	var lengths genome.Lengths
	if genomeFile != "" {
		lengths = genome.ReadLengths(genomeFile)
	}

	var classifier *centromere.Classifier
	if centromereFile != "" {
		ivs, err := centromere.ReadIntervals(centromereFile)
		exception.PanicOnErr(err)
		classifier = centromere.NewClassifier(ivs, haplotype)
	}

	groups := methyl.GroupByChrom(sites)
	chroms := methyl.SortedChroms(groups)

	// One chromosome per worker; batches share nothing, so output order is
	// restored by index after the group finishes.
	results := make([][]windows.Window, len(chroms))
	summaries := make([]windows.Summary, len(chroms))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range chroms {
		i := i
		g.Go(func() error {
			opt := windows.Options{Width: width, SkipOutOfRange: skipOutOfRange}
			if genomeFile != "" {
				size, ok := lengths.Size(chroms[i])
				if !ok {
					return fmt.Errorf("%s: chromosome %s not in length table %s", input, chroms[i], genomeFile)
				}
				opt.ChromLength = size
			}
			wins, sum, err := windows.Aggregate(groups[chroms[i]], opt)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			if classifier != nil {
				classifier.Annotate(wins)
			}
			results[i] = wins
			summaries[i] = sum
			return nil
		})
	}
	err := g.Wait()
	exception.PanicOnErr(err)

	out := fileio.EasyCreate(output)
	var all []windows.Window
	for i := range results {
		all = append(all, results[i]...)
		if summaries[i].OutOfRange > 0 {
			log.Printf("WARNING: %s: skipped %d out-of-range sites on %s (length %d)\n", input, summaries[i].OutOfRange, summaries[i].Chrom, summaries[i].ChromLength)
		}
	}
	windows.WriteTable(out, all, classifier != nil)
	err = out.Close()
	exception.PanicOnErr(err)

	logGenomeMeans(all)
}

func filterContext(sites []methyl.Site, context methyl.Context) []methyl.Site {
	var kept []methyl.Site
	for i := range sites {
		if sites[i].Context == context {
			kept = append(kept, sites[i])
		}
	}
	return kept
}

// logGenomeMeans reports the genome-wide coverage-weighted mean methylation
// per context, computed over windows with data.
func logGenomeMeans(wins []windows.Window) {
	values := make(map[methyl.Context][]float64)
	weights := make(map[methyl.Context][]float64)
	for i := range wins {
		if !wins[i].HasData() {
			continue
		}
		c := wins[i].Context
		values[c] = append(values[c], wins[i].AvgMethylation)
		weights[c] = append(weights[c], float64(wins[i].TotalCoverage))
	}
	for _, c := range methyl.Contexts {
		if len(values[c]) == 0 {
			continue
		}
		log.Printf("genome-wide weighted mean methylation in %s context: %.2f%% (%d windows with data)\n", c, stat.Mean(values[c], weights[c]), len(values[c]))
	}
}
