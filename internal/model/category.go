package model

// Category is a spending category. The server owns the set; within one
// session the client treats it as immutable and caches it under a single key.
type Category struct {
	ID    string
	Name  string
	Color string // hex color, e.g. "#4385BE"
}

// CategoryByID returns the category with the given ID, or false.
func CategoryByID(cats []Category, id string) (Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
