package catalog

import "sort"

// Count is a label with the number of entries carrying it.
type Count struct {
	Label string
	N     int
}

// Breakdown aggregates a catalog by site, platform and status.
type Breakdown struct {
	Total      int
	VerifiedOn string
	BySite     []Count
	ByPlatform []Count
	ByStatus   []Count
}

// Stats counts entries per site, platform and status. Each list is sorted by
// descending count, then label.
func Stats(entries []Entry) Breakdown {
	sites := map[string]int{}
	platforms := map[string]int{}
	statuses := map[string]int{}
	for _, e := range entries {
		if s, ok := e.Site(); ok {
			sites[s.Name]++
		} else {
			sites["Unknown"]++
		}
		platforms[e.Platform]++
		statuses[string(e.Status)]++
	}
	return Breakdown{
		Total:      len(entries),
		VerifiedOn: SnapshotDate(entries),
		BySite:     sortedCounts(sites),
		ByPlatform: sortedCounts(platforms),
		ByStatus:   sortedCounts(statuses),
	}
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, N: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// SnapshotDate is the verifiedOn date of entries, which Validate requires to
// be shared. It falls back to VerifiedOn for an empty list.
func SnapshotDate(entries []Entry) string {
	if len(entries) == 0 || entries[0].VerifiedOn == "" {
		return VerifiedOn
	}
	return entries[0].VerifiedOn
}
