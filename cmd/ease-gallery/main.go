// Copyright © 2025 Tweenline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/ease-gallery/main.go
// Summary: Renders every registered easing curve to an HTML chart page.
// Usage: go run ./cmd/ease-gallery [-o easing.html] [-samples 200]
// Notes: Development aid for eyeballing curve shapes; one chart per curve family.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/framegrace/tweenline/ease"
)

const chartHeight = "420px"

func main() {
	out := flag.String("o", "easing.html", "output HTML file")
	samples := flag.Int("samples", 200, "sample count per curve")
	flag.Parse()

	if *samples < 2 {
		log.Fatalf("ease-gallery: need at least 2 samples, got %d", *samples)
	}

	page := components.NewPage()
	page.PageTitle = "Tweenline easing gallery"

	for _, family := range groupByFamily(ease.Named()) {
		page.AddCharts(buildFamilyChart(family, *samples))
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("ease-gallery: %v", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		log.Fatalf("ease-gallery: render: %v", err)
	}
	fmt.Printf("wrote %s\n", *out)
}

// groupByFamily buckets curve names by their leading word, so quad-in,
// quad-out and quad-in-out share one chart.
func groupByFamily(names []string) [][]string {
	buckets := make(map[string][]string)
	for _, name := range names {
		family := name
		if i := strings.IndexByte(name, '-'); i > 0 {
			family = name[:i]
		}
		buckets[family] = append(buckets[family], name)
	}

	families := make([]string, 0, len(buckets))
	for family := range buckets {
		families = append(families, family)
	}
	sort.Strings(families)

	out := make([][]string, 0, len(families))
	for _, family := range families {
		sort.Strings(buckets[family])
		out = append(out, buckets[family])
	}
	return out
}

func buildFamilyChart(names []string, samples int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: strings.SplitN(names[0], "-", 2)[0]}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "f(t)"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := make([]string, samples+1)
	for i := 0; i <= samples; i++ {
		labels[i] = fmt.Sprintf("%.3f", float64(i)/float64(samples))
	}
	line.SetXAxis(labels)

	for _, name := range names {
		fn, ok := ease.Lookup(name)
		if !ok {
			continue
		}
		data := make([]opts.LineData, samples+1)
		for i := 0; i <= samples; i++ {
			t := float32(i) / float32(samples)
			data[i] = opts.LineData{Value: fn(t)}
		}
		line.AddSeries(name, data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		)
	}

	return line
}
