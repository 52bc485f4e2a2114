// Re-encode quality tiers
package video

import (
	"fmt"
	"strings"
)

// QualityTier selects a fixed pair of encoder parameters.
type QualityTier int

const (
	QualityLow QualityTier = iota
	QualityMedium
	QualityHigh
)

// EncoderParams are the rate-control and speed settings passed to the transcoder.
type EncoderParams struct {
	CRF    int
	Preset string
}

// QualityTiers lists the tiers from lowest to highest.
func QualityTiers() []QualityTier {
	return []QualityTier{QualityLow, QualityMedium, QualityHigh}
}

func (q QualityTier) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// Params returns the encoder parameters for q. Unknown tiers get medium.
func (q QualityTier) Params() EncoderParams {
	switch q {
	case QualityLow:
		return EncoderParams{CRF: 28, Preset: "fast"}
	case QualityHigh:
		return EncoderParams{CRF: 18, Preset: "slow"}
	default:
		return EncoderParams{CRF: 23, Preset: "medium"}
	}
}

func ParseQualityTier(s string) (QualityTier, error) {
	for _, q := range QualityTiers() {
		if strings.EqualFold(s, q.String()) {
			return q, nil
		}
	}
	return QualityMedium, fmt.Errorf("unknown quality %q (want low, medium or high)", s)
}
