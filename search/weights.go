package search

// ScoreWeights is the policy for combining the three relevance signals.
// All hybrid scoring goes through one named policy so that ranking is
// reproducible across runs and tests.
type ScoreWeights struct {
	Semantic float32
	Keyword  float32
	Temporal float32
}

// DefaultWeights favors semantic similarity over keyword overlap over
// temporal proximity.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		Semantic: 0.5,
		Keyword:  0.3,
		Temporal: 0.2,
	}
}

// Combine produces the combined score for one candidate, clamped to [0,1].
func (w ScoreWeights) Combine(semantic, keyword, temporal float32) float32 {
	return clamp01(w.Semantic*semantic + w.Keyword*keyword + w.Temporal*temporal)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
