package style

import (
	"fmt"
	"strings"
)

// Tier is a zoom level's style bucket.
type Tier int

const (
	// TierOverview styles the whole catalog seen from the root.
	TierOverview Tier = iota
	// TierGroup styles a single faculty, school or level.
	TierGroup
	// TierDetail styles scopes two or more levels below the root.
	TierDetail
)

// DefaultTier is used when a tier has no configured properties.
const DefaultTier = TierOverview

// Tiers lists every tier in order.
var Tiers = []Tier{TierOverview, TierGroup, TierDetail}

func (t Tier) String() string {
	switch t {
	case TierOverview:
		return "overview"
	case TierGroup:
		return "group"
	case TierDetail:
		return "detail"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier converts a tier name (case-insensitive) into a Tier.
func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return DefaultTier, fmt.Errorf("unknown tier %q", s)
}

// TierForDepth maps the absolute depth of a scope root to its tier.
func TierForDepth(depth int) Tier {
	switch {
	case depth <= 0:
		return TierOverview
	case depth == 1:
		return TierGroup
	default:
		return TierDetail
	}
}
