// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package experiments

import (
	"bytes"
	"encoding/csv"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	results := []Result{
		{Seed: 0, Preset: "learning", DiversityAt10: 4, MaxStreak: 2, MaxCreatorStreak: 1,
			ProsocialRatio: 0.4, OverlapTop10: 0.1, OverlapRatio: 0.2,
			DiversityPass: true, StreakPass: true, CreatorStreakPass: true, ProsocialPass: true, RuntimePass: true},
		{Seed: 1, Preset: "learning", DiversityAt10: 6, MaxStreak: 1, MaxCreatorStreak: 3,
			ProsocialRatio: 0.6, OverlapTop10: 0.3, OverlapRatio: 0.4,
			DiversityPass: true, StreakPass: true, CreatorStreakPass: false, ProsocialPass: false, RuntimePass: true},
		{Seed: 0, Preset: "learning", NightMode: true, DiversityAt10: 5, MaxStreak: 2, MaxCreatorStreak: 2,
			ProsocialRatio: 0.5, OverlapTop10: 0.2, OverlapRatio: 0.3,
			DiversityPass: true, StreakPass: true, CreatorStreakPass: true, ProsocialPass: true, RuntimePass: true},
	}

	summaries := Summarize(results)
	if len(summaries) != 2 {
		t.Fatalf("Summarize() returned %d groups, want 2", len(summaries))
	}

	day := summaries[0]
	if day.Preset != "learning" || day.NightMode {
		t.Fatalf("first group = %s/night=%v, want learning day", day.Preset, day.NightMode)
	}
	if day.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", day.Sessions)
	}
	if day.Diversity.Mean != 5 {
		t.Errorf("Diversity.Mean = %v, want 5", day.Diversity.Mean)
	}
	if math.Abs(day.Diversity.StdDev-1) > 1e-9 {
		t.Errorf("Diversity.StdDev = %v, want 1", day.Diversity.StdDev)
	}
	if day.Diversity.Min != 4 || day.Diversity.Max != 6 {
		t.Errorf("Diversity min/max = %v/%v, want 4/6", day.Diversity.Min, day.Diversity.Max)
	}
	if day.CreatorStreak.Mean != 2 {
		t.Errorf("CreatorStreak.Mean = %v, want 2", day.CreatorStreak.Mean)
	}
	if day.Overlap10.Mean != 0.2 {
		t.Errorf("Overlap10.Mean = %v, want 0.2", day.Overlap10.Mean)
	}
	if day.PassRate != 0.5 {
		t.Errorf("PassRate = %v, want 0.5", day.PassRate)
	}

	night := summaries[1]
	if !night.NightMode || night.PassRate != 1 {
		t.Errorf("second group = night=%v pass=%v, want night pass 1", night.NightMode, night.PassRate)
	}
}

func TestSummarize_BaselineSortsLast(t *testing.T) {
	results := []Result{
		{Preset: BaselineLabel},
		{Preset: "entertainment"},
		{Preset: "inspiration"},
	}
	summaries := Summarize(results)
	if summaries[len(summaries)-1].Preset != BaselineLabel {
		t.Errorf("last group = %s, want baseline", summaries[len(summaries)-1].Preset)
	}
}

func TestWriteRawAndSummary(t *testing.T) {
	results := []Result{
		{Seed: 0, Preset: "learning", K: 15, DiversityAt10: 5, MaxStreak: 2, MaxCreatorStreak: 2,
			ProsocialRatio: 0.5, OverlapTop10: 0.4, OverlapRatio: 0.25, Jaccard: 0.2,
			DiversityPass: true, StreakPass: true, CreatorStreakPass: true, ProsocialPass: true, RuntimePass: true},
	}

	var raw bytes.Buffer
	if err := WriteRaw(&raw, results); err != nil {
		t.Fatalf("WriteRaw() error = %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(raw.String())).ReadAll()
	if err != nil {
		t.Fatalf("raw output not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("raw CSV has %d rows, want header + 1", len(rows))
	}
	if !reflect.DeepEqual(rows[0], rawHeader) {
		t.Errorf("raw header = %v", rows[0])
	}
	col := func(name string) string {
		for i, h := range rawHeader {
			if h == name {
				return rows[1][i]
			}
		}
		t.Fatalf("column %q not in header", name)
		return ""
	}
	if col("preset") != "learning" {
		t.Errorf("preset column = %s", col("preset"))
	}
	if col("max_creator_streak") != "2" {
		t.Errorf("max_creator_streak column = %s", col("max_creator_streak"))
	}
	if col("overlap_ratio_top10") != "0.4000" {
		t.Errorf("overlap_ratio_top10 column = %s", col("overlap_ratio_top10"))
	}
	if col("pass_creator_streak") != "true" || col("pass") != "true" {
		t.Errorf("pass columns = %s/%s", col("pass_creator_streak"), col("pass"))
	}

	var summary bytes.Buffer
	if err := WriteSummary(&summary, Summarize(results)); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	rows, err = csv.NewReader(strings.NewReader(summary.String())).ReadAll()
	if err != nil {
		t.Fatalf("summary output not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("summary CSV has %d rows, want header + 1", len(rows))
	}
	if len(rows[1]) != len(summaryHeader) {
		t.Errorf("summary row has %d columns, want %d", len(rows[1]), len(summaryHeader))
	}
	if rows[1][len(rows[1])-1] != "1.0000" {
		t.Errorf("pass_rate column = %s, want 1.0000", rows[1][len(rows[1])-1])
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	in := []Summary{
		{
			Preset: "entertainment", NightMode: false, Sessions: 3,
			Diversity:     Stat{Mean: 5.5, StdDev: 0.5, Min: 5, Max: 6},
			Streak:        Stat{Mean: 1.5, StdDev: 0.5, Min: 1, Max: 2},
			CreatorStreak: Stat{Mean: 2, Min: 1, Max: 3, StdDev: 0.75},
			Prosocial:     Stat{Mean: 0.4, StdDev: 0.1, Min: 0.3, Max: 0.5},
			Overlap10:     Stat{Mean: 0.25, StdDev: 0.05, Min: 0.2, Max: 0.3},
			Overlap:       Stat{Mean: 0.5, StdDev: 0.1, Min: 0.4, Max: 0.6},
			PassRate:      0.75,
		},
		{Preset: BaselineLabel, Sessions: 3, PassRate: 0.25},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, in); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	out, err := ReadSummary(&buf)
	if err != nil {
		t.Fatalf("ReadSummary() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestReadSummary_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"wrong header", "a,b,c\n1,2,3\n"},
		{"bad night_mode", strings.Join(summaryHeader, ",") + "\n" +
			"learning,maybe,1" + strings.Repeat(",0.0000", 24) + ",0.5000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadSummary(strings.NewReader(tt.csv)); err == nil {
				t.Error("ReadSummary() accepted invalid input")
			}
		})
	}
}
