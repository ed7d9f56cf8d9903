package domain

type ItemType string

const (
	ItemProduct     ItemType = "product"
	ItemSemiproduct ItemType = "semiproduct"
)

// ValidItemTypes is the canonical set of accepted item type strings.
var ValidItemTypes = map[string]bool{
	"product": true, "semiproduct": true,
}

type BlockKind string

const (
	BlockTask  BlockKind = "task"
	BlockSetup BlockKind = "setup"
)

type SkipReason string

const (
	SkipMissingStart    SkipReason = "missing_start"
	SkipInvalidRate     SkipReason = "invalid_rate"
	SkipInvalidQuantity SkipReason = "invalid_quantity"
	SkipNoShifts        SkipReason = "no_shifts"
)
