// Package dishes serves the menu: list, create, read and update dishes.
package dishes

// Dish is a menu item.
type Dish struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	ImageURL    string `json:"image_url"`
}

// Key returns the dish id; it is the store key func.
func Key(d Dish) string { return d.ID }

// Seed returns the menu loaded at startup.
func Seed() []Dish {
	return []Dish{
		{
			ID:          "d351db2b49b69679504652ea1cf38241",
			Name:        "Dolcelatte and chickpea spaghetti",
			Description: "Spaghetti topped with a blend of dolcelatte and fresh chickpeas",
			Price:       19,
			ImageURL:    "https://images.pexels.com/photos/1279330/pexels-photo-1279330.jpeg?h=530&w=350",
		},
		{
			ID:          "3c637d011d844ebab1205fef8a7e36ea",
			Name:        "Broccoli and beetroot stir fry",
			Description: "Crunchy stir fry featuring fresh broccoli and beetroot",
			Price:       15,
			ImageURL:    "https://images.pexels.com/photos/4144234/pexels-photo-4144234.jpeg?h=530&w=350",
		},
		{
			ID:          "90c3d873684bf381dfab29034b5bba73",
			Name:        "Falafel and tahini bagel",
			Description: "A warm bagel filled with falafel and tahini",
			Price:       6,
			ImageURL:    "https://images.pexels.com/photos/4560606/pexels-photo-4560606.jpeg?h=530&w=350",
		},
		{
			ID:          "f8a1cc7b9b3a4f8e8f6a1c2d3e4b5a69",
			Name:        "Tomato and mozzarella salad",
			Description: "Heirloom tomatoes with fresh mozzarella and basil",
			Price:       11,
			ImageURL:    "https://images.pexels.com/photos/1211887/pexels-photo-1211887.jpeg?h=530&w=350",
		},
	}
}
