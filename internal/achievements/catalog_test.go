package achievements

import "testing"

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Catalog {
		if seen[def.ID] {
			t.Fatalf("duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true
	}
}

func TestParamsMatchCategory(t *testing.T) {
	for _, def := range Catalog {
		var want Category
		switch def.Params.(type) {
		case TasteParams:
			want = CategoryTaste
		case MiningRankParams:
			want = CategoryMiningRank
		case WorkEthicParams:
			want = CategoryWorkEthic
		case OperatorParams:
			want = CategoryOperator
		default:
			t.Fatalf("%s: unknown params type %T", def.ID, def.Params)
		}
		if def.Category != want {
			t.Fatalf("%s: category %q does not match params type %T", def.ID, def.Category, def.Params)
		}
	}
}

func TestRevocabilityByCategory(t *testing.T) {
	for _, def := range Catalog {
		wantRevocable := def.Category == CategoryTaste || def.Category == CategoryOperator
		if def.Revocable != wantRevocable {
			t.Fatalf("%s: revocable=%v, want %v for category %q", def.ID, def.Revocable, wantRevocable, def.Category)
		}
	}
}

func TestTiersStrictlyTighten(t *testing.T) {
	var lastRank float64
	var lastWork int64
	lastOperator := 1.0
	for _, def := range Catalog {
		switch p := def.Params.(type) {
		case MiningRankParams:
			if p.Percentile <= lastRank {
				t.Fatalf("%s: mining rank tiers must be increasingly strict", def.ID)
			}
			lastRank = p.Percentile
		case WorkEthicParams:
			if p.MinSavedRuns <= lastWork {
				t.Fatalf("%s: work ethic tiers must be increasingly strict", def.ID)
			}
			lastWork = p.MinSavedRuns
		case OperatorParams:
			if p.MaxClaimRatio >= lastOperator {
				t.Fatalf("%s: operator tiers must be increasingly strict", def.ID)
			}
			lastOperator = p.MaxClaimRatio
		}
	}
}

func TestByID(t *testing.T) {
	if _, ok := ByID("starting_miner"); !ok {
		t.Fatalf("starting_miner missing from catalog")
	}
	if _, ok := ByID("no_such_badge"); ok {
		t.Fatalf("unexpected catalog hit for unknown id")
	}
	if len(IDs()) != len(Catalog) {
		t.Fatalf("IDs() length mismatch")
	}
}
