package bracket

import "sort"

type Round struct {
	Number  int         `json:"round"`
	Matches []MatchView `json:"matches"`
}

// GroupByRound groups matches by round number, rounds ascending and matches ordered by
// match number within a round.
func GroupByRound(matches []MatchView) []Round {
	rounds := make(map[int][]MatchView)
	var roundNums []int

	for _, m := range matches {
		if _, exists := rounds[m.RoundNumber]; !exists {
			roundNums = append(roundNums, m.RoundNumber)
		}
		rounds[m.RoundNumber] = append(rounds[m.RoundNumber], m)
	}

	sort.Ints(roundNums)

	grouped := make([]Round, 0, len(roundNums))
	for _, r := range roundNums {
		ms := rounds[r]
		sort.Slice(ms, func(i, j int) bool {
			return ms[i].MatchNumber < ms[j].MatchNumber
		})
		grouped = append(grouped, Round{Number: r, Matches: ms})
	}
	return grouped
}
