package catalog

// Condition describes the wear of a listed item, best first
type Condition string

const (
	ConditionNew      Condition = "New"
	ConditionLikeNew  Condition = "Like New"
	ConditionUsedGood Condition = "Used - Good"
	ConditionUsedFair Condition = "Used - Fair"
	ConditionUsedPoor Condition = "Used - Poor"
)

// Conditions lists every condition from best to worst
var Conditions = []Condition{
	ConditionNew,
	ConditionLikeNew,
	ConditionUsedGood,
	ConditionUsedFair,
	ConditionUsedPoor,
}

// IsValid reports whether c is a known condition
func (c Condition) IsValid() bool {
	return c.Rank() >= 0
}

// Rank returns 0 for the best condition, increasing as wear increases; -1 if unknown
func (c Condition) Rank() int {
	for i, known := range Conditions {
		if c == known {
			return i
		}
	}
	return -1
}

// SortOption selects the ordering of the public product list
type SortOption string

const (
	SortNewest         SortOption = "newest"
	SortPriceAsc       SortOption = "price_asc"
	SortPriceDesc      SortOption = "price_desc"
	SortSalesDesc      SortOption = "sales_desc"
	SortConditionBest  SortOption = "condition_best"
	SortConditionWorst SortOption = "condition_worst"
	SortUsageLow       SortOption = "usage_low"
	SortUsageHigh      SortOption = "usage_high"
)

// ParseSortOption maps a query value to a SortOption, defaulting to newest
func ParseSortOption(s string) SortOption {
	switch opt := SortOption(s); opt {
	case SortPriceAsc, SortPriceDesc, SortSalesDesc, SortConditionBest,
		SortConditionWorst, SortUsageLow, SortUsageHigh:
		return opt
	default:
		return SortNewest
	}
}
