package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/phi-engine/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to scenario fixture JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/scenarios.json")
		os.Exit(2)
	}
	os.Exit(runFixtureMode(*fixturePath))
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	scenarios, err := f.ToScenarios()
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert fixture: %v\n", err)
		return 2
	}
	return printComparison(replay.Replay(context.Background(), scenarios))
}

// printComparison outputs one line per scenario and returns the exit code.
func printComparison(results []replay.ReplayResult) int {
	fmt.Printf("%-24s| %-10s| %-12s| %s\n", "Scenario", "Φ", "Method", "Match")
	fmt.Printf("%-24s+%-11s+%-13s+%s\n",
		"------------------------", "-----------", "-------------", "------")

	for _, r := range results {
		match := "OK"
		if r.Action != "pass" {
			match = "DIFF " + r.Reason
		}
		value := fmt.Sprintf("%.6f", r.Result.Phi)
		if r.Err != nil {
			value = "error"
		}
		fmt.Printf("%-24s| %-10s| %-12s| %s\n", r.ID, value, r.Result.Method, match)
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", s.Total, s.Passed, s.Failed)
	if s.Failed > 0 {
		return 1
	}
	return 0
}

// #endregion fixture-mode
