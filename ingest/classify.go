package ingest

import (
	"context"
	"fmt"
	"sort"
)

// Classification partitions a cycle's horse identifiers against the
// store. New horses get an enrichment lookup; known ones never do
// again, which bounds total enrichment volume to the count of distinct
// horses ever seen. Retry holds known-but-unenriched horses and is only
// populated when the re-enrich sweep is enabled.
type Classification struct {
	Known []string
	New   []string
	Retry []string
}

// Classify splits the deduplicated horse identifiers into known and new
// using a single batched existence lookup.
func Classify(ctx context.Context, store Store, ids []string, reenrich bool) (*Classification, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	known, err := store.KnownHorseIDs(ctx, sorted)
	if err != nil {
		return nil, fmt.Errorf("classify horses: %w", err)
	}

	cls := &Classification{}
	for _, id := range sorted {
		if _, ok := known[id]; ok {
			cls.Known = append(cls.Known, id)
		} else {
			cls.New = append(cls.New, id)
		}
	}

	if reenrich && len(cls.Known) > 0 {
		retry, err := store.UnenrichedHorseIDs(ctx, cls.Known)
		if err != nil {
			return nil, fmt.Errorf("classify unenriched: %w", err)
		}
		sort.Strings(retry)
		cls.Retry = retry
	}

	return cls, nil
}
