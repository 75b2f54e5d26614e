package domain

// CartLine is a product with a quantity. The product fields are flattened
// next to "quantity" when serialized.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

type WishlistEntry = Product

type CompareEntry = Product

// State is a point-in-time copy of a session's three lists.
type State struct {
	Cart        []CartLine      `json:"cart"`
	Wishlist    []WishlistEntry `json:"wishlist"`
	CompareList []CompareEntry  `json:"compareProducts"`
}

// Result reports what a store mutation did.
type Result string

const (
	ResultApplied          Result = "applied"
	ResultUnchanged        Result = "unchanged"
	ResultDuplicate        Result = "duplicate"
	ResultCategoryMismatch Result = "category_mismatch"
)

// Applied reports whether the mutation changed state.
func (r Result) Applied() bool {
	return r == ResultApplied
}
