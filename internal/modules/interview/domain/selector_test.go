package domain_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"pmdrill/internal/modules/interview/domain"
)

func TestSelectQuestionsPreservesOrderWithoutRandomize(t *testing.T) {
	t.Parallel()
	in := []string{"a", "b", "c", "d"}
	got := domain.SelectQuestions(in, 3, false, nil)
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected selection %v", got)
	}
	if got := domain.SelectQuestions(in, 10, false, nil); !slices.Equal(got, in) {
		t.Fatalf("under-supply must return all candidates, got %v", got)
	}
	if got := domain.SelectQuestions(in, 0, true, nil); len(got) != 0 {
		t.Fatalf("zero count must return nothing, got %v", got)
	}
}

func TestSelectQuestionsProperties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		candidates := rapid.SliceOfNDistinct(rapid.IntRange(0, 1000), 0, 30, rapid.ID[int]).Draw(rt, "candidates")
		count := rapid.IntRange(0, 40).Draw(rt, "count")
		randomize := rapid.Bool().Draw(rt, "randomize")
		seed := rapid.Uint64().Draw(rt, "seed")
		before := slices.Clone(candidates)

		got := domain.SelectQuestions(candidates, count, randomize, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))

		if !slices.Equal(before, candidates) {
			rt.Fatalf("input mutated: %v -> %v", before, candidates)
		}
		if len(got) != min(count, len(candidates)) {
			rt.Fatalf("expected %d items, got %d", min(count, len(candidates)), len(got))
		}
		for _, v := range got {
			if !slices.Contains(candidates, v) {
				rt.Fatalf("item %d not in candidates", v)
			}
		}
		if !randomize && !slices.Equal(got, candidates[:len(got)]) {
			rt.Fatalf("order not preserved: %v", got)
		}
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		if len(slices.Compact(sorted)) != len(got) {
			rt.Fatalf("duplicates in selection: %v", got)
		}
	})
}

func TestSelectQuestionsRandomizeVariesOrder(t *testing.T) {
	t.Parallel()
	in := []int{1, 2, 3, 4, 5, 6}
	rng := rand.New(rand.NewPCG(7, 11))
	seen := map[[6]int]struct{}{}
	for range 50 {
		got := domain.SelectQuestions(in, len(in), true, rng)
		seen[[6]int(got)] = struct{}{}
	}
	if len(seen) < 10 {
		t.Fatalf("expected varied permutations, got %d distinct", len(seen))
	}
}

func TestSelectQuestionsShuffleIsRoughlyUniform(t *testing.T) {
	t.Parallel()
	in := []int{0, 1, 2}
	rng := rand.New(rand.NewPCG(1, 2))
	const trials = 6000
	first := [3]int{}
	for range trials {
		got := domain.SelectQuestions(in, 3, true, rng)
		first[got[0]]++
	}
	for v, n := range first {
		if n < trials/3-300 || n > trials/3+300 {
			t.Fatalf("value %d led %d times, expected about %d", v, n, trials/3)
		}
	}
}
