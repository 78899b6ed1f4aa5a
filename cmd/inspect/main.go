package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/phi-engine/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to phi_results.db")
	last := flag.Int("last", 20, "show N most recent results")
	digest := flag.String("digest", "", "show every result for one system digest")
	result := flag.String("result", "", "show single result detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/phi_results.db [--last N] [--digest d] [--result id] [--json]")
		os.Exit(2)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := run(st, *last, *digest, *result, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region modes

func run(st *store.Store, last int, digest, result string, jsonOut bool) error {
	if result != "" {
		rec, err := st.Get(result)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(rec)
		}
		printDetail(rec)
		return nil
	}

	var (
		recs []store.Record
		err  error
	)
	if digest != "" {
		recs, err = st.ListByDigest(digest)
	} else {
		recs, err = st.List(last)
	}
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "no results found")
		return nil
	}
	if jsonOut {
		return printJSON(recs)
	}
	printListTable(recs)
	return nil
}

func printListTable(recs []store.Record) {
	fmt.Printf("%-36s  %-9s  %-12s  %3s  %-10s  %10s  %s\n",
		"Result", "Substrate", "Digest", "N", "Method", "Φ", "Time")
	for _, r := range recs {
		fmt.Printf("%-36s  %-9s  %-12s  %3d  %-10s  %10.6f  %s\n",
			r.ResultID, r.Substrate, short(r.SystemDigest), r.NElements, r.Method, r.Phi,
			r.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
}

func printDetail(r store.Record) {
	fmt.Printf("Result:     %s\n", r.ResultID)
	fmt.Printf("Substrate:  %s (%d elements)\n", r.Substrate, r.NElements)
	fmt.Printf("Digest:     %s\n", r.SystemDigest)
	fmt.Printf("Method:     %s\n", r.Method)
	fmt.Printf("Φ:          %.9f\n", r.Phi)
	if r.MIP != "" {
		fmt.Printf("MIP:        %s\n", r.MIP)
	}
	fmt.Printf("Partitions: %d in %s\n", r.PartitionsTried, r.Elapsed)
	fmt.Printf("Created:    %s\n", r.CreatedAt.Format("2006-01-02T15:04:05Z"))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

// #endregion modes
