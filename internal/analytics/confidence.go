package analytics

import (
	"math/rand"

	"github.com/feedback-insights/dashboard/internal/models"
)

// ConfidenceFor is a stand-in for a real sentiment classifier's confidence
// output. It draws a percentage from a per-label range: positive 82-97,
// negative 80-97, neutral 65-85. The rng is injected so the rest of the
// engine stays deterministic; a real classifier replaces this wholesale and
// nothing downstream depends on these specific ranges.
func ConfidenceFor(sentiment string, rng *rand.Rand) int {
	switch sentiment {
	case models.SentimentPositive:
		return 82 + rng.Intn(16)
	case models.SentimentNegative:
		return 80 + rng.Intn(18)
	default:
		return 65 + rng.Intn(21)
	}
}
