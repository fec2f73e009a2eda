package domain

import "math/rand/v2"

// SelectQuestions copies candidates, shuffles the copy when randomize is set
// and truncates it to count. It never fails: fewer candidates than count
// yields all of them. A nil rng falls back to the global source.
func SelectQuestions[T any](candidates []T, count int, randomize bool, rng *rand.Rand) []T {
	if count < 0 {
		count = 0
	}
	out := make([]T, len(candidates))
	copy(out, candidates)
	if randomize {
		shuffle := rand.Shuffle
		if rng != nil {
			shuffle = rng.Shuffle
		}
		// Fisher-Yates, uniform over permutations.
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	if len(out) > count {
		out = out[:count]
	}
	return out
}
