package main

import (
	"fmt"

	"github.com/vertgenlab/gonomics/exception"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/methyl"
	"github.com/xr092138123-cmyk/Oryza-Genus-Centromere-Project/relpos"
)

// plotProfile renders one chromosome's centromere methylation profile with
// one line per context. Zero-coverage windows are left out rather than drawn
// at zero.
func plotProfile(chrom string, group []relpos.RelWindow, file string) {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Centromere methylation profile: %s", chrom)
	pl.X.Label.Text = "Position in centromere (kb)"
	pl.Y.Label.Text = "Methylation (%)"
	pl.Y.Min = 0
	pl.Y.Max = 100

	var seriesIdx int
	for _, context := range methyl.Contexts {
		var xys plotter.XYs
		for i := range group {
			if group[i].Context != context || !group[i].HasData() {
				continue
			}
			xys = append(xys, plotter.XY{X: group[i].RelPosKb, Y: group[i].AvgMethylation})
		}
		if len(xys) == 0 {
			continue
		}
		line, err := plotter.NewLine(xys)
		exception.PanicOnErr(err)
		line.Color = plotutil.Color(seriesIdx)
		seriesIdx++
		pl.Add(line)
		pl.Legend.Add(string(context), line)
	}
	pl.Legend.Top = true

	err := pl.Save(25*vg.Centimeter, 10*vg.Centimeter, file)
	exception.PanicOnErr(err)
}
