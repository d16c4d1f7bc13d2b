package scoring

import "github.com/Dosada05/leaguify/models"

// AggregateStandings derives per-player standings from the full history of a league.
//
// Game wins count every win outcome. A cycle awards cycle wins only when it lies
// strictly before the current cycle and has exactly numGames completed games; each player sharing the top
// win count of that cycle gets one, unless nobody won a game in it. Current cycle
// points sum the player's scores in the current cycle.
//
// The result follows the order of players. Outcomes for unknown games or players
// are ignored.
func AggregateStandings(league *models.League, players []*models.Player, games []*models.Game, outcomes []*models.Outcome) []models.PlayerStanding {
	standings := make([]models.PlayerStanding, 0, len(players))
	if len(players) == 0 {
		return standings
	}

	current := CurrentCycle(games)

	cycleOfGame := make(map[string]int, len(games))
	completedPerCycle := make(map[int]int)
	for _, g := range games {
		cycleOfGame[g.ID] = g.CycleNumber
		if g.IsCompleted() {
			completedPerCycle[g.CycleNumber]++
		}
	}

	index := make(map[string]int, len(players))
	for i, p := range players {
		index[p.ID] = i
		standings = append(standings, models.PlayerStanding{
			PlayerID:  p.ID,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
		})
	}

	// wins per cycle per player, only for cycles that are scored
	cycleWins := make(map[int][]int)
	for cycle, completed := range completedPerCycle {
		if cycle < current && IsCycleScorable(completed, league.NumGames) {
			cycleWins[cycle] = make([]int, len(players))
		}
	}

	for _, o := range outcomes {
		i, ok := index[o.PlayerID]
		if !ok {
			continue
		}
		cycle, ok := cycleOfGame[o.GameID]
		if !ok {
			continue
		}
		if o.Result == models.ResultWin {
			standings[i].GameWins++
			if wins, scored := cycleWins[cycle]; scored {
				wins[i]++
			}
		}
		if cycle == current {
			standings[i].CurrentCyclePoints += o.Score
		}
	}

	for _, wins := range cycleWins {
		top := 0
		for _, w := range wins {
			top = max(top, w)
		}
		if top == 0 {
			continue
		}
		for i, w := range wins {
			if w == top {
				standings[i].CycleWins++
			}
		}
	}

	return standings
}
