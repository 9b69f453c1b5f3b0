package entities

// Tag is a user-owned label attachable to recipes.
type Tag struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name   string `gorm:"size:255;not null;uniqueIndex:idx_tags_user_name" json:"name"`
}

func (t Tag) String() string { return t.Name }

// Ingredient has the same shape as Tag and lives in its own table.
type Ingredient struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_ingredients_user_name" json:"user_id"`
	Name   string `gorm:"size:255;not null;uniqueIndex:idx_ingredients_user_name" json:"name"`
}

func (i Ingredient) String() string { return i.Name }

// Attribute is the table-independent view of a Tag or an Ingredient.
// Both convert to and from it directly.
type Attribute struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
}

// AttributeKind names the storage of one attribute flavour.
type AttributeKind struct {
	Name       string // tag | ingredient
	Table      string
	JoinTable  string
	JoinColumn string
	Relation   string // association name on Recipe
}

var (
	TagKind = AttributeKind{
		Name:       "tag",
		Table:      "tags",
		JoinTable:  "recipe_tags",
		JoinColumn: "tag_id",
		Relation:   "Tags",
	}
	IngredientKind = AttributeKind{
		Name:       "ingredient",
		Table:      "ingredients",
		JoinTable:  "recipe_ingredients",
		JoinColumn: "ingredient_id",
		Relation:   "Ingredients",
	}
)

func TagsAsAttributes(tags []Tag) []Attribute {
	out := make([]Attribute, len(tags))
	for i, t := range tags {
		out[i] = Attribute(t)
	}
	return out
}

func IngredientsAsAttributes(ingredients []Ingredient) []Attribute {
	out := make([]Attribute, len(ingredients))
	for i, in := range ingredients {
		out[i] = Attribute(in)
	}
	return out
}
