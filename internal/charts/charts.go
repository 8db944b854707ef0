// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package charts renders experiment summaries as PNG bar charts, one chart
// per metric with grouped day/night bars and mean±std whiskers.
package charts

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/experiments"
)

const (
	chartWidth  = 900
	chartHeight = 480

	marginLeft   = 70.0
	marginRight  = 30.0
	marginTop    = 50.0
	marginBottom = 70.0
)

// Metric selects one statistic out of a summary row for plotting.
type Metric struct {
	// Name is the file-safe identifier, e.g. "diversity_at_10".
	Name string
	// Title is drawn above the chart.
	Title string
	// Value extracts the plotted statistic.
	Value func(experiments.Summary) experiments.Stat
}

// Metrics returns the standard chart set in render order.
func Metrics() []Metric {
	return []Metric{
		{
			Name:  "diversity_at_10",
			Title: "Topic diversity in the first 10 picks (mean ± std)",
			Value: func(s experiments.Summary) experiments.Stat { return s.Diversity },
		},
		{
			Name:  "max_streak",
			Title: "Longest same-topic run (mean ± std)",
			Value: func(s experiments.Summary) experiments.Stat { return s.Streak },
		},
		{
			Name:  "prosocial_ratio",
			Title: "Mean prosocial score (mean ± std)",
			Value: func(s experiments.Summary) experiments.Stat { return s.Prosocial },
		},
		{
			Name:  "overlap_top10",
			Title: "Top-10 overlap with engagement-only baseline (mean ± std)",
			Value: func(s experiments.Summary) experiments.Stat { return s.Overlap10 },
		},
	}
}

// Render draws one metric chart and writes it as PNG.
func Render(w io.Writer, summaries []experiments.Summary, metric Metric) error {
	if len(summaries) == 0 {
		return fmt.Errorf("render %s: no summaries", metric.Name)
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	plotW := float64(chartWidth) - marginLeft - marginRight
	plotH := float64(chartHeight) - marginTop - marginBottom
	baseY := marginTop + plotH

	// Scale to the largest whisker tip, with a little headroom.
	var top float64
	for _, s := range summaries {
		stat := metric.Value(s)
		if v := stat.Mean + stat.StdDev; v > top {
			top = v
		}
	}
	if top <= 0 {
		top = 1
	}
	top *= 1.1

	// Axes.
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1)
	dc.DrawLine(marginLeft, marginTop, marginLeft, baseY)
	dc.DrawLine(marginLeft, baseY, marginLeft+plotW, baseY)
	dc.Stroke()

	// Horizontal gridlines with tick labels.
	for i := 0; i <= 4; i++ {
		v := top * float64(i) / 4
		y := baseY - plotH*float64(i)/4
		dc.SetRGB(0.85, 0.85, 0.85)
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(formatTick(v), marginLeft-8, y, 1, 0.4)
	}

	slot := plotW / float64(len(summaries))
	barW := slot * 0.6

	for i, s := range summaries {
		stat := metric.Value(s)
		x := marginLeft + slot*float64(i) + (slot-barW)/2
		h := plotH * stat.Mean / top
		y := baseY - h

		if s.NightMode {
			dc.SetRGB(0.25, 0.27, 0.45)
		} else if s.Preset == experiments.BaselineLabel {
			dc.SetRGB(0.6, 0.6, 0.6)
		} else {
			dc.SetRGB(0.3, 0.55, 0.75)
		}
		dc.DrawRectangle(x, y, barW, h)
		dc.Fill()

		// std whisker
		if stat.StdDev > 0 {
			cx := x + barW/2
			lo := baseY - plotH*math.Max(stat.Mean-stat.StdDev, 0)/top
			hi := baseY - plotH*math.Min(stat.Mean+stat.StdDev, top)/top
			dc.SetRGB(0.1, 0.1, 0.1)
			dc.SetLineWidth(1.5)
			dc.DrawLine(cx, lo, cx, hi)
			dc.DrawLine(cx-5, hi, cx+5, hi)
			dc.DrawLine(cx-5, lo, cx+5, lo)
			dc.Stroke()
		}

		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(groupLabel(s), x+barW/2, baseY+16, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", stat.Mean), x+barW/2, y-10, 0.5, 0.5)
	}

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(metric.Title, float64(chartWidth)/2, marginTop/2, 0.5, 0.5)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode %s chart: %w", metric.Name, err)
	}
	return nil
}

// SaveAll renders every standard metric chart into dir as <name>.png.
func SaveAll(dir string, summaries []experiments.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir %s: %w", dir, err)
	}
	for _, metric := range Metrics() {
		path := filepath.Join(dir, metric.Name+".png")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := Render(f, summaries, metric); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
	}
	return nil
}

func groupLabel(s experiments.Summary) string {
	if s.Preset == experiments.BaselineLabel {
		return "baseline"
	}
	if s.NightMode {
		return s.Preset + " (night)"
	}
	return s.Preset
}

func formatTick(v float64) string {
	if v >= 10 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
