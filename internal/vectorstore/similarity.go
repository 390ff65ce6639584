package vectorstore

import (
	"math"
	"sort"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// It returns 0 when either vector is empty, the lengths differ, or a vector
// has zero magnitude, so mismatched entries rank low instead of failing.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp rounding drift.
	return float32(max(-1, min(1, sim)))
}

// Candidate is a stored vector considered for ranking.
type Candidate struct {
	ID     string
	Vector []float32
}

// Scored is a ranked candidate.
type Scored struct {
	ID    string
	Score float32
}

// SearchSimilar scores every candidate against query and returns at most
// topK results by descending score. Equal scores keep their input order.
func SearchSimilar(query []float32, candidates []Candidate, topK int) []Scored {
	if topK <= 0 {
		return []Scored{}
	}

	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{ID: c.ID, Score: CosineSimilarity(query, c.Vector)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
