package game

// Rank maps a score to the medal shown on the game-over modal.
func Rank(score int) string {
	switch {
	case score >= 80:
		return "Platinum"
	case score >= 50:
		return "Gold"
	case score >= 30:
		return "Silver"
	}
	return "Bronze"
}

// Oranges awards one orange per found word and a 50% bonus (rounded down)
// for a perfect run.
func Oranges(found, total int) (oranges int, bonus bool) {
	oranges = found
	if total > 0 && found == total {
		bonus = true
		oranges += found / 2
	}
	return oranges, bonus
}

func computeResults(score, found, total int, won bool) Results {
	oranges, bonus := Oranges(found, total)
	return Results{
		Score:   score,
		Rank:    Rank(score),
		Found:   found,
		Total:   total,
		Oranges: oranges,
		Bonus:   bonus,
		Won:     won,
	}
}
