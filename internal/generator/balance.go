package generator

import (
	"math/rand"

	"github.com/stormhead-org/feedsync/internal/model"
)

// chunkSize is the window of the final positional shuffle. Small enough that
// the round-robin category distribution survives, large enough to break the
// strict rotation pattern.
const chunkSize = 4

// Balance reorders the aggregate sequence so no stretch of it is dominated
// by one category.
//
// Naive full-sequence shuffling clumps categories whenever the source
// proportions are uneven, so this runs in two stages: posts are bucketed by
// category and each bucket shuffled independently, the buckets are
// interleaved round-robin, then fixed-size chunks are shuffled in place to
// remove the residual rotation pattern.
func (g *Generator) Balance(posts []model.Post) []model.Post {
	if len(posts) == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seedOf("balance") + int64(len(posts))))

	// Bucket by category in a fixed order so the result is deterministic.
	order := model.Categories()
	buckets := make([][]model.Post, 0, len(order)+1)
	byCategory := make(map[model.Category][]model.Post, len(order))
	for _, p := range posts {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}
	for _, c := range order {
		if b := byCategory[c]; len(b) > 0 {
			buckets = append(buckets, b)
			delete(byCategory, c)
		}
	}
	// Posts with a category outside the fixed enumeration still flow through.
	for _, p := range posts {
		if b, ok := byCategory[p.Category]; ok {
			buckets = append(buckets, b)
			delete(byCategory, p.Category)
		}
	}

	for _, b := range buckets {
		rng.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
	}

	out := interleave(buckets, len(posts))

	for start := 0; start < len(out); start += chunkSize {
		end := start + chunkSize
		if end > len(out) {
			end = len(out)
		}
		chunk := out[start:end]
		rng.Shuffle(len(chunk), func(i, j int) { chunk[i], chunk[j] = chunk[j], chunk[i] })
	}

	return out
}

// interleave takes one post from each bucket in rotation until all buckets
// are exhausted, so every category gets representation regardless of how
// many posts it contributed.
func interleave(buckets [][]model.Post, n int) []model.Post {
	out := make([]model.Post, 0, n)
	idx := make([]int, len(buckets))

	for len(out) < n {
		added := false
		for i, b := range buckets {
			if idx[i] >= len(b) {
				continue
			}
			out = append(out, b[idx[i]])
			idx[i]++
			added = true
			if len(out) >= n {
				break
			}
		}
		if !added {
			break
		}
	}

	return out
}
