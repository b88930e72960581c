package domain

import (
	"math"
	"sort"
)

// Normalize scales v to unit L2 length in place and returns it.
// The zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// CosineDistance returns 1 - dot(a, b) for unit vectors a and b.
// Vectors of unequal length are maximally distant.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 2
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return 1 - dot
}

// Nearest ranks candidates by cosine distance to query and returns at most k.
// Candidates must be supplied in insertion order; equal distances keep it.
func Nearest(query []float32, candidates []Entry, k int) []Match {
	if k <= 0 || len(candidates) == 0 {
		return []Match{}
	}

	matches := make([]Match, len(candidates))
	for i, e := range candidates {
		matches[i] = Match{Entry: e, Distance: CosineDistance(query, e.Vector)}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
