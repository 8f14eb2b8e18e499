package fixture

// Split partitions fixtures into upcoming and past-or-live, keeping the
// input order inside each group.
func Split(items []Fixture) (upcoming []Fixture, pastOrLive []Fixture) {
	upcoming = make([]Fixture, 0, len(items))
	pastOrLive = make([]Fixture, 0, len(items))
	for _, item := range items {
		if item.Status.Short.IsUpcoming() {
			upcoming = append(upcoming, item)
			continue
		}
		pastOrLive = append(pastOrLive, item)
	}
	return upcoming, pastOrLive
}

// Dedupe keeps the first occurrence of every fixture id, in input order.
func Dedupe(items []Enriched) []Enriched {
	seen := make(map[int64]struct{}, len(items))
	out := make([]Enriched, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Fixture.ID]; ok {
			continue
		}
		seen[item.Fixture.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func DedupeFixtures(items []Fixture) []Fixture {
	seen := make(map[int64]struct{}, len(items))
	out := make([]Fixture, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func IDs(items []Enriched) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.Fixture.ID)
	}
	return out
}
