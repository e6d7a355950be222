package trivia

import "math/rand"

// shuffleAnswers returns a fair permutation of the given answers using the
// Fisher-Yates algorithm. The input slice is not modified.
func shuffleAnswers(rng *rand.Rand, answers []string) []string {
	out := make([]string, len(answers))
	copy(out, answers)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
