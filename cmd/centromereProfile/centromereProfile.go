package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"

	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/centromere"
	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/methyl"
	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/relpos"
	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/windows"
)

func usage() {
	fmt.Print(
		"centromereProfile - Build per-chromosome methylation profiles across centromeric regions.\n" +
			"Reads a window table produced by methylWindows, keeps Centromere windows,\n" +
			"and writes each window's position relative to the start of its\n" +
			"chromosome's centromeric region.\n" +
			"Usage:\n" +
			"centromereProfile [options] -i windows.tsv\n\n")
	flag.PrintDefaults()
}

func main() {
	input := flag.String("i", "", "Input window table from methylWindows. Must contain the regionType column unless -all is set.")
	output := flag.String("o", "stdout", "Output profile table.")
	all := flag.Bool("all", false, "Profile every window instead of only Centromere windows.")
	plotPrefix := flag.String("plot", "", "Write one <prefix><chrom>.png methylation profile per chromosome.")
	ascii := flag.Bool("ascii", false, "Print a terminal preview of each chromosome profile.")
	flag.Parse()

	if *input == "" {
		usage()
		log.Fatal("ERROR: must input a window table with -i")
	}

	centromereProfile(*input, *output, *plotPrefix, *all, *ascii)
}

func centromereProfile(input, output, plotPrefix string, all, ascii bool) {
	wins, err := windows.ReadTable(input)
	exception.PanicOnErr(err)

	if !all {
		wins = keepCentromeric(wins)
		if len(wins) == 0 {
			log.Fatalf("ERROR: no Centromere windows in %s. Was methylWindows run with -c, or did you mean -all?", input)
		}
	}

	rel := relpos.Normalize(wins)

	out := fileio.EasyCreate(output)
	writeProfileTable(out, rel)
	err = out.Close()
	exception.PanicOnErr(err)

	if plotPrefix == "" && !ascii {
		return
	}
	for _, chrom := range profileChroms(rel) {
		group := chromGroup(rel, chrom)
		if plotPrefix != "" {
			file := plotPrefix + chrom + ".png"
			plotProfile(chrom, group, file)
			log.Printf("wrote %s\n", file)
		}
		if ascii {
			printAsciiProfile(chrom, group)
		}
	}
}

func keepCentromeric(wins []windows.Window) []windows.Window {
	var kept []windows.Window
	for i := range wins {
		if wins[i].Region == centromere.Centromere {
			kept = append(kept, wins[i])
		}
	}
	return kept
}

func writeProfileTable(out *fileio.EasyWriter, rel []relpos.RelWindow) {
	fmt.Fprintln(out, "#chromosome\tstart\tend\tcontext\trelPos\trelPosKb\ttotalCoverage\tavgMethylation")
	for i := range rel {
		avg := "NA"
		if rel[i].HasData() {
			avg = strconv.FormatFloat(rel[i].AvgMethylation, 'f', 4, 64)
		}
		fmt.Fprintf(out, "%s\t%d\t%d\t%s\t%d\t%s\t%d\t%s\n",
			rel[i].Chrom, rel[i].Start, rel[i].End, rel[i].Context,
			rel[i].RelPos, strconv.FormatFloat(rel[i].RelPosKb, 'f', 3, 64),
			rel[i].TotalCoverage, avg)
	}
}

func profileChroms(rel []relpos.RelWindow) []string {
	var chroms []string
	for i := range rel {
		if !slices.Contains(chroms, rel[i].Chrom) {
			chroms = append(chroms, rel[i].Chrom)
		}
	}
	slices.Sort(chroms)
	return chroms
}

func chromGroup(rel []relpos.RelWindow, chrom string) []relpos.RelWindow {
	var group []relpos.RelWindow
	for i := range rel {
		if rel[i].Chrom == chrom {
			group = append(group, rel[i])
		}
	}
	return group
}

func printAsciiProfile(chrom string, group []relpos.RelWindow) {
	var series [][]float64
	var labels []string
	for _, context := range methyl.Contexts {
		var vals []float64
		for i := range group {
			if group[i].Context == context && group[i].HasData() {
				vals = append(vals, group[i].AvgMethylation)
			}
		}
		if len(vals) > 0 {
			series = append(series, vals)
			labels = append(labels, string(context))
		}
	}
	if len(series) == 0 {
		return
	}
	fmt.Printf("%s (%v)\n", chrom, labels)
	fmt.Println(asciigraph.PlotMany(series, asciigraph.Height(10), asciigraph.Precision(0), asciigraph.SeriesColors(
		asciigraph.Red,
		asciigraph.Green,
		asciigraph.Blue,
	)))
}
