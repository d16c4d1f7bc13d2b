package scoring

import "github.com/Dosada05/leaguify/models"

// IsCycleComplete reports whether enough games of a cycle are completed.
// The comparison is >= so that a cycle with extra completed games, e.g. after
// numGames was lowered, is still detected as complete.
func IsCycleComplete(completedGames, numGames int) bool {
	return completedGames >= numGames
}

// IsCycleScorable reports whether a closed cycle counts for cycle wins. Unlike
// IsCycleComplete it needs exactly numGames completed games, so a cycle that was
// extended with extra games, or played under another numGames, awards nothing.
func IsCycleScorable(completedGames, numGames int) bool {
	return completedGames == numGames
}

// CurrentCycle is the highest cycle number among games, or 1 when there are none.
func CurrentCycle(games []*models.Game) int {
	current := 0
	for _, g := range games {
		current = max(current, g.CycleNumber)
	}
	return EffectiveCycle(current)
}

// EffectiveCycle maps a stored max cycle number (0 when no games exist) to the
// current cycle.
func EffectiveCycle(maxCycleNumber int) int {
	if maxCycleNumber < 1 {
		return 1
	}
	return maxCycleNumber
}
