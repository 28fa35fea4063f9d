package persistence

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
)

// conditionRankSQL orders item conditions best first; it mirrors catalog.Conditions
const conditionRankSQL = `CASE products.item_condition` +
	` WHEN 'New' THEN 0` +
	` WHEN 'Like New' THEN 1` +
	` WHEN 'Used - Good' THEN 2` +
	` WHEN 'Used - Fair' THEN 3` +
	` WHEN 'Used - Poor' THEN 4` +
	` ELSE 5 END`

// productOrderClause maps a whitelisted sort option to its ORDER BY clause.
// Every ordering ends with newest first so equal keys keep a stable order.
func productOrderClause(sort catalog.SortOption) string {
	const newest = "products.created_at DESC, products.id DESC"
	switch sort {
	case catalog.SortPriceAsc:
		return "products.price ASC, " + newest
	case catalog.SortPriceDesc:
		return "products.price DESC, " + newest
	case catalog.SortSalesDesc:
		return "products.sold_quantity DESC, " + newest
	case catalog.SortConditionBest:
		return conditionRankSQL + " ASC, " + newest
	case catalog.SortConditionWorst:
		return conditionRankSQL + " DESC, " + newest
	case catalog.SortUsageLow:
		return "products.usage_days ASC, " + newest
	case catalog.SortUsageHigh:
		return "products.usage_days DESC, " + newest
	default:
		return newest
	}
}
