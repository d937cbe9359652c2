package model

type Category string

const (
	CategoryTravel  Category = "travel"
	CategoryFood    Category = "food"
	CategoryCulture Category = "culture"
	CategoryEvents  Category = "events"
	CategoryHousing Category = "housing"
	CategoryHelp    Category = "help"
)

// CategoryAll is the filter sentinel matching every category.
const CategoryAll Category = "all"

// Categories lists every concrete category in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryTravel,
		CategoryFood,
		CategoryCulture,
		CategoryEvents,
		CategoryHousing,
		CategoryHelp,
	}
}
