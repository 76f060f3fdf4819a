package ledger

import "sort"

// DefaultERPLocationAliases maps ERP room names onto the branch names the
// SM warehouse file uses. ERP rows in rooms outside this map are not part
// of the reconciliation scope.
var DefaultERPLocationAliases = map[string]string{
	"냉동":     "신갈냉동",
	"상이품/작업": "신갈상이품/작업",
	"선왕판매":   "케이미트스토어",
}

// TargetBranches returns the branch names reachable through an alias map,
// sorted for stable filtering.
func TargetBranches(aliases map[string]string) []string {
	out := make([]string, 0, len(aliases))
	for _, branch := range aliases {
		out = append(out, branch)
	}
	sort.Strings(out)
	return out
}

// DefaultTrendAliases collapses raw branch names onto the short warehouse
// labels the trend report rows use.
var DefaultTrendAliases = map[string]string{
	"신갈냉동":     "신갈",
	"선왕CH4층":   "선왕",
	"신갈김형제":    "김형제",
	"신갈상이품/작업": "상이품",
	"케이미트스토어":  "스토어",
}

// DefaultTrendRowOrder fixes the warehouse row order of the trend report.
var DefaultTrendRowOrder = []string{"신갈", "선왕", "김형제", "상이품", "스토어"}

// TrendTotalLabel names the grand-total trend row.
const TrendTotalLabel = "합계"
