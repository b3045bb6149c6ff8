package probe

import (
	"fmt"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/normalize"
	"github.com/okian/scout/internal/domain/quadrant"
)

// Verify lists the invariants v breaks: normalized axes leave [0,100], the
// total disagrees with the series, a highlight series is not first or not
// a single point, or a point sits in the wrong quadrant.
func Verify(v *service.View, highlight string) []string {
	var out []string
	pair := quadrant.Pair{
		XThreshold:     v.Pair.X.Threshold,
		YThreshold:     v.Pair.Y.Threshold,
		XLowerIsBetter: v.Pair.X.LowerIsBetter,
		YLowerIsBetter: v.Pair.Y.LowerIsBetter,
	}

	total := 0
	for i, s := range v.Series {
		total += len(s.Points)
		if s.Highlight {
			if i != 0 {
				out = append(out, fmt.Sprintf("highlight series at position %d", i))
			}
			if len(s.Points) != 1 || s.Points[0].EntityID != highlight {
				out = append(out, "highlight series must hold exactly the highlighted entity")
			}
		}
		if len(s.Points) == 0 {
			out = append(out, fmt.Sprintf("series %q is empty", s.Key))
		}
		for _, p := range s.Points {
			if !v.Pair.X.Raw && outOfRange(p.X) {
				out = append(out, fmt.Sprintf("%s: x %.3f outside [0,100]", p.EntityID, p.X))
			}
			if !v.Pair.Y.Raw && outOfRange(p.Y) {
				out = append(out, fmt.Sprintf("%s: y %.3f outside [0,100]", p.EntityID, p.Y))
			}
			if q := pair.Classify(p.X, p.Y); q != p.Quadrant {
				out = append(out, fmt.Sprintf("%s: quadrant %s, expected %s", p.EntityID, p.Quadrant, q))
			}
		}
	}
	if total != v.Total {
		out = append(out, fmt.Sprintf("total %d but series hold %d points", v.Total, total))
	}
	return out
}

func outOfRange(f float64) bool {
	return f < normalize.Min || f > normalize.Max
}
