package models

// Category types.
const (
	CategoryIncome  = "income"
	CategoryExpense = "expense"
)

// Category groups a user's transactions. Names are unique per owner;
// a category is never visible to any other user.
type Category struct {
	ID     int    `json:"id"`
	UserID int    `json:"-"`
	Name   string `json:"name"`
	Type   string `json:"type"` // income | expense
}

// ValidCategoryType reports whether t is one of the known category types.
func ValidCategoryType(t string) bool {
	return t == CategoryIncome || t == CategoryExpense
}
