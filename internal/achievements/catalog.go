// Package achievements holds the static badge catalog. Every badge carries
// typed predicate parameters; the rule engine dispatches on the parameter type
// through one exhaustive switch, so adding a category is a compile-time
// exercise rather than a string-matching one.
package achievements

// Category is the closed set of badge families.
type Category string

const (
	CategoryTaste      Category = "taste"
	CategoryMiningRank Category = "mining_rank"
	CategoryWorkEthic  Category = "work_ethic"
	CategoryOperator   Category = "operator"
)

// Params is the tagged variant of per-category predicate parameters.
// Exactly one concrete type exists per Category.
type Params interface {
	isParams()
}

// TasteParams: like fewer than MaxLikeRatio of viewed automata, with at least
// MinViews lifetime views. Revocable by nature.
type TasteParams struct {
	MaxLikeRatio float64
	MinViews     int64
}

// MiningRankParams: claim-count percentile rank at or above Percentile
// across all users holding at least one claim. Never revoked once earned.
type MiningRankParams struct {
	Percentile float64
}

// WorkEthicParams: lifetime saved runs at or above MinSavedRuns.
type WorkEthicParams struct {
	MinSavedRuns int64
}

// OperatorParams: trailing-7-day claims/views below MaxClaimRatio, qualified
// only when the trailing-week view count reaches MinWeeklyViews.
type OperatorParams struct {
	MaxClaimRatio  float64
	MinWeeklyViews int64
}

func (TasteParams) isParams()      {}
func (MiningRankParams) isParams() {}
func (WorkEthicParams) isParams()  {}
func (OperatorParams) isParams()   {}

type Definition struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Order       int
	Revocable   bool
	Icon        string
	Params      Params
}

// Catalog is ordered for display: category order first, then tier order.
var Catalog = []Definition{
	{
		ID:          "miner_with_taste",
		Name:        "Miner with Taste",
		Description: "Like fewer than 10% of the automata you view (min 10 views)",
		Category:    CategoryTaste,
		Order:       0,
		Revocable:   true,
		Icon:        "taste-1",
		Params:      TasteParams{MaxLikeRatio: 0.10, MinViews: 10},
	},
	{
		ID:          "aspiring_artist",
		Name:        "Aspiring Artist",
		Description: "Like fewer than 5% of the automata you view (min 20 views)",
		Category:    CategoryTaste,
		Order:       1,
		Revocable:   true,
		Icon:        "taste-2",
		Params:      TasteParams{MaxLikeRatio: 0.05, MinViews: 20},
	},
	{
		ID:          "starting_miner",
		Name:        "Starting Miner",
		Description: "Rank in the top 90% of miners by claims",
		Category:    CategoryMiningRank,
		Order:       0,
		Revocable:   false,
		Icon:        "rank-1",
		Params:      MiningRankParams{Percentile: 0.10},
	},
	{
		ID:          "amateur_miner",
		Name:        "Amateur Miner",
		Description: "Rank in the top 50% of miners by claims",
		Category:    CategoryMiningRank,
		Order:       1,
		Revocable:   false,
		Icon:        "rank-2",
		Params:      MiningRankParams{Percentile: 0.50},
	},
	{
		ID:          "intermediate_miner",
		Name:        "Intermediate Miner",
		Description: "Rank in the top 25% of miners by claims",
		Category:    CategoryMiningRank,
		Order:       2,
		Revocable:   false,
		Icon:        "rank-3",
		Params:      MiningRankParams{Percentile: 0.75},
	},
	{
		ID:          "skilled_miner",
		Name:        "Skilled Miner",
		Description: "Rank in the top 10% of miners by claims",
		Category:    CategoryMiningRank,
		Order:       3,
		Revocable:   false,
		Icon:        "rank-4",
		Params:      MiningRankParams{Percentile: 0.90},
	},
	{
		ID:          "expert_miner",
		Name:        "Expert Miner",
		Description: "Rank in the top 5% of miners by claims",
		Category:    CategoryMiningRank,
		Order:       4,
		Revocable:   false,
		Icon:        "rank-5",
		Params:      MiningRankParams{Percentile: 0.95},
	},
	{
		ID:          "slow_and_steady",
		Name:        "Slow and Steady",
		Description: "Save 30+ generation runs",
		Category:    CategoryWorkEthic,
		Order:       0,
		Revocable:   false,
		Icon:        "work-1",
		Params:      WorkEthicParams{MinSavedRuns: 30},
	},
	{
		ID:          "workaholic",
		Name:        "Workaholic",
		Description: "Save 100+ generation runs",
		Category:    CategoryWorkEthic,
		Order:       1,
		Revocable:   false,
		Icon:        "work-2",
		Params:      WorkEthicParams{MinSavedRuns: 100},
	},
	{
		ID:          "obsessive_employee",
		Name:        "Obsessive Employee",
		Description: "Save 1000+ generation runs",
		Category:    CategoryWorkEthic,
		Order:       2,
		Revocable:   false,
		Icon:        "work-3",
		Params:      WorkEthicParams{MinSavedRuns: 1000},
	},
	{
		ID:          "smooth_operator",
		Name:        "Smooth Operator",
		Description: "Claim fewer than 50% of views in the past week (min 10 views)",
		Category:    CategoryOperator,
		Order:       0,
		Revocable:   true,
		Icon:        "operator-1",
		Params:      OperatorParams{MaxClaimRatio: 0.50, MinWeeklyViews: 10},
	},
	{
		ID:          "advanced_operator",
		Name:        "Advanced Operator",
		Description: "Claim fewer than 10% of views in the past week (min 20 views)",
		Category:    CategoryOperator,
		Order:       1,
		Revocable:   true,
		Icon:        "operator-2",
		Params:      OperatorParams{MaxClaimRatio: 0.10, MinWeeklyViews: 20},
	},
	{
		ID:          "skilled_operator",
		Name:        "Skilled Operator",
		Description: "Claim fewer than 5% of views in the past week (min 50 views)",
		Category:    CategoryOperator,
		Order:       2,
		Revocable:   true,
		Icon:        "operator-3",
		Params:      OperatorParams{MaxClaimRatio: 0.05, MinWeeklyViews: 50},
	},
}

var byID = func() map[string]Definition {
	m := make(map[string]Definition, len(Catalog))
	for _, def := range Catalog {
		m[def.ID] = def
	}
	return m
}()

// ByID looks up a definition; ok is false for ids outside the catalog.
func ByID(id string) (Definition, bool) {
	def, ok := byID[id]
	return def, ok
}

// IDs returns all catalog ids in display order.
func IDs() []string {
	ids := make([]string, 0, len(Catalog))
	for _, def := range Catalog {
		ids = append(ids, def.ID)
	}
	return ids
}
