// Inspect a B+Tree table file (.idx) without opening its data directory.
// Usage: go run ./cmd/inspect_idx <path-to-.idx>
// Example: go run ./cmd/inspect_idx data/indexes/people.idx
package main

import (
	"fmt"
	"os"

	bplus "SlotDB/storage_engine/access/indexfile_manager/bplustree"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <index.idx>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s data/indexes/people.idx\n", os.Args[0])
		os.Exit(1)
	}
	if err := bplus.InspectIndexFile(os.Args[1], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
