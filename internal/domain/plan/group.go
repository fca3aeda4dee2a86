package plan

import "sort"

// Occupancy lists the users standing in one cell, sorted by user id.
type Occupancy struct {
	Cell  Cell
	Users []string
}

// GroupByCell inverts a user -> cell snapshot. Users are deduplicated and the
// result is ordered by row, then column, so renders are deterministic.
func GroupByCell(snapshot map[string]Cell) []Occupancy {
	sets := make(map[Cell]map[string]struct{})
	for userID, cell := range snapshot {
		set, ok := sets[cell]
		if !ok {
			set = make(map[string]struct{})
			sets[cell] = set
		}
		set[userID] = struct{}{}
	}

	out := make([]Occupancy, 0, len(sets))
	for cell, set := range sets {
		users := make([]string, 0, len(set))
		for userID := range set {
			users = append(users, userID)
		}
		sort.Strings(users)
		out = append(out, Occupancy{Cell: cell, Users: users})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cell.Row != out[j].Cell.Row {
			return out[i].Cell.Row < out[j].Cell.Row
		}
		return out[i].Cell.Column < out[j].Cell.Column
	})
	return out
}
