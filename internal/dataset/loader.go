// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package dataset loads tagged short-video candidate pools from CSV files.
//
// The expected layout matches the tagged shorts dataset: video_id, title,
// channel, published_at, view_count, duration_sec, topic, prosocial, risk.
// Column order does not matter; extra columns are ignored. Validation is
// fail-fast and happens entirely here — the feed Builder never checks schema.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/logging"
)

// ErrMissingColumns indicates the CSV header lacks required columns.
var ErrMissingColumns = errors.New("dataset missing required columns")

// requiredColumns must all be present in the header before any row is read.
var requiredColumns = []string{"video_id", "topic", "channel", "view_count", "prosocial", "risk"}

// Load reads a candidate pool from the CSV file at path.
func Load(path string) ([]feed.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	pool, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return pool, nil
}

// Read parses a candidate pool from CSV data.
//
// Prosocial and risk values are coerced to numbers, defaulting to 0 when
// non-numeric or missing, and clamped into [0, 1]. View counts must be
// non-negative integers. Blank topic or channel labels are tolerated but
// counted and logged, mirroring the upstream tagging pipeline's warnings.
func Read(r io.Reader) ([]feed.Candidate, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrMissingColumns, requiredColumns)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var pool []feed.Candidate
	var blankTopics, blankChannels int
	line := 1

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		views, err := parseViewCount(field(row, "view_count"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		c := feed.Candidate{
			ID:          field(row, "video_id"),
			Title:       field(row, "title"),
			Topic:       field(row, "topic"),
			Creator:     field(row, "channel"),
			PublishedAt: field(row, "published_at"),
			ViewCount:   views,
			DurationSec: coerceFloat(field(row, "duration_sec")),
			Prosocial:   clamp01(coerceFloat(field(row, "prosocial"))),
			Risk:        clamp01(coerceFloat(field(row, "risk"))),
		}

		if c.Topic == "" {
			blankTopics++
		}
		if c.Creator == "" {
			blankChannels++
		}

		pool = append(pool, c)
	}

	if blankTopics > 0 || blankChannels > 0 {
		logging.Warn().
			Int("blank_topics", blankTopics).
			Int("blank_channels", blankChannels).
			Msg("Dataset contains rows with blank labels")
	}

	return pool, nil
}

func parseViewCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Tagged exports sometimes carry counts as floats ("12000.0").
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, fmt.Errorf("invalid view_count %q", s)
		}
		v = int64(f)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative view_count %d", v)
	}
	return v, nil
}

// coerceFloat parses a float, defaulting to 0 for empty or non-numeric input.
func coerceFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
