package normalize

import (
	"github.com/Ap3pp3rs94/hostfusion/internal/canonical"
	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// Normalize dispatches raw to the mapping function for source, returning
// nil if source is unrecognized or raw is empty.
func Normalize(raw docnode.Node, source string) *canonical.Host {
	switch source {
	case "Qualys":
		return Qualys(raw)
	case "CrowdStrike":
		return CrowdStrike(raw)
	case "Tenable":
		return Tenable(raw)
	default:
		return nil
	}
}
