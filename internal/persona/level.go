// Package persona turns a character definition and the player's relationship
// standing into the system instruction sent to the model.
package persona

// Number of distinct levels Level can return.
const Levels = 5

// Level maps a relationship score onto a coarse band in [0, Levels-1].
//
//	score <= -5 -> 0
//	score <= -2 -> 1
//	score <=  1 -> 2
//	score <=  4 -> 3
//	otherwise   -> 4
func Level(score int) int {
	switch {
	case score <= -5:
		return 0
	case score <= -2:
		return 1
	case score <= 1:
		return 2
	case score <= 4:
		return 3
	default:
		return 4
	}
}
