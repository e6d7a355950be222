package game

import (
	"math"
	"sort"

	ws "github.com/quizzlio/quizzlio-server/pkg/http/ws"
)

// Score computes points for a single answer. Correct answers earn points
// proportional to the time remaining; wrong answers earn nothing.
func Score(isCorrect bool, timeRemaining float64) int {
	if !isCorrect {
		return 0
	}
	return int(math.Ceil(timeRemaining * 10))
}

// Leaderboard ranks players by score descending. The sort is stable so ties
// keep roster (join) order, making the ranking deterministic.
func Leaderboard(players []*Player) []ws.LeaderboardEntry {
	sorted := make([]*Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	entries := make([]ws.LeaderboardEntry, len(sorted))
	for i, p := range sorted {
		entries[i] = ws.LeaderboardEntry{
			Rank:     i + 1,
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
		}
	}
	return entries
}
