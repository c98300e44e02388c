package recipe

import "errors"

// Domain errors for recipe operations
var (
	ErrTitleRequired    = errors.New("recipe title is required")
	ErrNoIngredientName = errors.New("every ingredient needs a name")
)
