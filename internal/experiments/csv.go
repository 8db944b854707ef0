// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package experiments

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Canonical output filenames inside the results directory.
const (
	RawFilename     = "experiment_raw.csv"
	SummaryFilename = "experiment_summary.csv"
)

var rawHeader = []string{
	"seed", "preset", "night_mode", "k",
	"diversity_at_10", "max_topic_streak", "max_creator_streak", "prosocial_ratio",
	"overlap_ratio_top10", "overlap_ratio_topk", "jaccard",
	"build_ms", "pass_creator_streak", "pass",
}

var summaryHeader = []string{
	"preset", "night_mode", "sessions",
	"diversity_mean", "diversity_std", "diversity_min", "diversity_max",
	"streak_mean", "streak_std", "streak_min", "streak_max",
	"creator_streak_mean", "creator_streak_std", "creator_streak_min", "creator_streak_max",
	"prosocial_mean", "prosocial_std", "prosocial_min", "prosocial_max",
	"overlap10_mean", "overlap10_std", "overlap10_min", "overlap10_max",
	"overlap_mean", "overlap_std", "overlap_min", "overlap_max",
	"pass_rate",
}

// WriteRaw writes one CSV row per trial.
func WriteRaw(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rawHeader); err != nil {
		return fmt.Errorf("write raw header: %w", err)
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Seed),
			r.Preset,
			strconv.FormatBool(r.NightMode),
			strconv.Itoa(r.K),
			strconv.Itoa(r.DiversityAt10),
			strconv.Itoa(r.MaxStreak),
			strconv.Itoa(r.MaxCreatorStreak),
			formatFloat(r.ProsocialRatio),
			formatFloat(r.OverlapTop10),
			formatFloat(r.OverlapRatio),
			formatFloat(r.Jaccard),
			formatFloat(float64(r.BuildDuration.Microseconds()) / 1000),
			strconv.FormatBool(r.CreatorStreakPass),
			strconv.FormatBool(r.Pass()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write raw row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes one CSV row per (preset, night) group.
func WriteSummary(w io.Writer, summaries []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, s := range summaries {
		row := []string{
			s.Preset,
			strconv.FormatBool(s.NightMode),
			strconv.Itoa(s.Sessions),
		}
		for _, stat := range []Stat{s.Diversity, s.Streak, s.CreatorStreak, s.Prosocial, s.Overlap10, s.Overlap} {
			row = append(row,
				formatFloat(stat.Mean),
				formatFloat(stat.StdDev),
				formatFloat(stat.Min),
				formatFloat(stat.Max),
			)
		}
		row = append(row, formatFloat(s.PassRate))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSummary parses rows written by WriteSummary. Header column order must
// match; a file from an older schema is rejected.
func ReadSummary(r io.Reader) ([]Summary, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read summary csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read summary csv: empty file")
	}

	header := rows[0]
	if len(header) != len(summaryHeader) {
		return nil, fmt.Errorf("read summary csv: %d columns, want %d", len(header), len(summaryHeader))
	}
	for i, name := range summaryHeader {
		if header[i] != name {
			return nil, fmt.Errorf("read summary csv: column %d is %q, want %q", i, header[i], name)
		}
	}

	summaries := make([]Summary, 0, len(rows)-1)
	for n, row := range rows[1:] {
		s, err := parseSummaryRow(row)
		if err != nil {
			return nil, fmt.Errorf("read summary csv row %d: %w", n+1, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func parseSummaryRow(row []string) (Summary, error) {
	if len(row) != len(summaryHeader) {
		return Summary{}, fmt.Errorf("%d fields, want %d", len(row), len(summaryHeader))
	}

	night, err := strconv.ParseBool(row[1])
	if err != nil {
		return Summary{}, fmt.Errorf("night_mode: %w", err)
	}
	sessions, err := strconv.Atoi(row[2])
	if err != nil {
		return Summary{}, fmt.Errorf("sessions: %w", err)
	}

	s := Summary{Preset: row[0], NightMode: night, Sessions: sessions}

	stats := []*Stat{&s.Diversity, &s.Streak, &s.CreatorStreak, &s.Prosocial, &s.Overlap10, &s.Overlap}
	col := 3
	for _, stat := range stats {
		for _, field := range []*float64{&stat.Mean, &stat.StdDev, &stat.Min, &stat.Max} {
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return Summary{}, fmt.Errorf("%s: %w", summaryHeader[col], err)
			}
			*field = v
			col++
		}
	}

	rate, err := strconv.ParseFloat(row[col], 64)
	if err != nil {
		return Summary{}, fmt.Errorf("pass_rate: %w", err)
	}
	s.PassRate = rate
	return s, nil
}

// SaveRaw writes trial rows to a file, creating or truncating it.
func SaveRaw(path string, results []Result) error {
	return saveCSV(path, func(w io.Writer) error { return WriteRaw(w, results) })
}

// SaveSummary writes summary rows to a file, creating or truncating it.
func SaveSummary(path string, summaries []Summary) error {
	return saveCSV(path, func(w io.Writer) error { return WriteSummary(w, summaries) })
}

// LoadSummary reads a summary CSV from disk.
func LoadSummary(path string) ([]Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSummary(f)
}

func saveCSV(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
