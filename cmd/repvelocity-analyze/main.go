package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/meltforce/repvelocity/internal/ingest/imu"
	"github.com/meltforce/repvelocity/internal/kinematics"
	"github.com/meltforce/repvelocity/internal/models"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	filePath := flag.String("file", "", "path to a capture file (required)")
	threshold := flag.Float64("threshold", 0, "velocity-loss threshold percentage (default: pipeline default)")
	jsonOut := flag.Bool("json", false, "emit the full analysis as JSON")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repvelocity-analyze", Version)
		return
	}

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: repvelocity-analyze -file <capture.json> [-threshold N] [-json]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := kinematics.DefaultConfig()
	if *threshold != 0 {
		if *threshold < 0 || *threshold > 100 {
			fmt.Fprintf(os.Stderr, "Error: -threshold must be a percentage in (0, 100]\n")
			os.Exit(1)
		}
		cfg.VelocityLossThresholdPct = *threshold
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", *filePath, err)
		os.Exit(1)
	}

	sessions, err := imu.DecodeSessions(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	type report struct {
		Session  sessionHeader              `json:"session"`
		Analysis kinematics.SessionAnalysis `json:"analysis"`
	}
	reports := make([]report, 0, len(sessions))
	for _, session := range sessions {
		reports = append(reports, report{
			Session:  header(session),
			Analysis: kinematics.AnalyzeSession(session, cfg),
		})
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			fmt.Fprintf(os.Stderr, "Error: encoding output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, r := range reports {
		printReport(r.Session, r.Analysis, cfg)
	}
}

type sessionHeader struct {
	Exercise  string  `json:"exercise"`
	Equipment string  `json:"equipment,omitempty"`
	WeightKg  float64 `json:"weight_kg,omitempty"`
}

func header(s models.Session) sessionHeader {
	return sessionHeader{Exercise: s.Exercise, Equipment: s.Equipment, WeightKg: s.WeightKg}
}

func printReport(h sessionHeader, a kinematics.SessionAnalysis, cfg kinematics.Config) {
	fmt.Printf("=== %s", h.Exercise)
	if h.Equipment != "" {
		fmt.Printf(" (%s)", h.Equipment)
	}
	if h.WeightKg > 0 {
		fmt.Printf(" @ %.1f kg", h.WeightKg)
	}
	fmt.Println(" ===")

	for _, set := range a.Sets {
		if set.Skipped {
			fmt.Printf("\nSet %d: skipped\n", set.SetNumber)
			continue
		}
		fmt.Printf("\nSet %d:\n", set.SetNumber)
		for _, rep := range set.Reps {
			m := rep.Metrics
			fmt.Printf("  Rep %d:", m.RepNumber)
			if m.PeakVelocity != nil {
				fmt.Printf(" peak %.2f m/s", *m.PeakVelocity)
			} else {
				fmt.Printf(" peak n/a")
			}
			if m.Duration > 0 {
				fmt.Printf(", %.2fs", m.Duration)
			}
			fmt.Printf(", loss %.1f%%", m.VelocityLossPct)
			if m.IsEffective {
				fmt.Printf(" [effective]")
			} else {
				fmt.Printf(" [fatigued]")
			}
			fmt.Println()
		}
		fmt.Printf("  Consistency: %.0f (%s)  Fatigue: %.0f (%s)  Effective: %d/%d\n",
			set.Consistency.Score, set.Consistency.Label,
			set.Fatigue.Score, set.Fatigue.Level,
			set.Classification.EffectiveCount, set.Classification.TotalCount)
	}

	fmt.Printf("\nSession (threshold %.0f%%):\n", cfg.VelocityLossThresholdPct)
	fmt.Printf("  Consistency: %.0f (%s)\n", a.Consistency.Score, a.Consistency.Label)
	fmt.Printf("  Fatigue:     %.0f (%s), velocity drop %.1f%%\n",
		a.Fatigue.Score, a.Fatigue.Level, a.Fatigue.VelocityDropPct)
	fmt.Printf("  Effective:   %d/%d reps, overall drop %.1f%%\n",
		a.Classification.EffectiveCount, a.Classification.TotalCount,
		a.Classification.OverallDropPct)

	for _, w := range a.Warnings {
		fmt.Printf("  Warning: set %d rep %d: %s\n", w.SetNumber, w.RepNumber, w.Message)
	}
	fmt.Println()
}
