package menu

type Item struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Category  string `json:"category"`
	IsPopular bool   `json:"isPopular"`
}

// Kept in sync with the storefront.
var items = []Item{
	{ID: 1, Name: "珍珠奶茶", Price: 60, Category: "milk-tea", IsPopular: true},
	{ID: 2, Name: "四季春青茶", Price: 40, Category: "fruit-tea", IsPopular: true},
	{ID: 3, Name: "鮮榨檸檬汁", Price: 55, Category: "fruit-tea", IsPopular: false},
	{ID: 4, Name: "草莓優格冰沙", Price: 85, Category: "seasonal", IsPopular: false},
}

// List returns a copy of the catalog in display order.
func List() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
