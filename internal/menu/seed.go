package menu

import "github.com/hammamikhairi/ottoserve/internal/domain"

// SampleStock is the stock that covers a few servings of every sample dish.
func SampleStock() []domain.Ingredient {
	return []domain.Ingredient{
		{Name: "Tomato", Amount: 10},
		{Name: "Cheese", Amount: 5},
		{Name: "Dough", Amount: 4},
		{Name: "Bun", Amount: 6},
		{Name: "Beef", Amount: 6},
		{Name: "Lettuce", Amount: 8},
		{Name: "Chicken", Amount: 4},
		{Name: "Rice", Amount: 10},
	}
}

func sampleDishes() []*domain.Dish {
	return []*domain.Dish{
		{
			Name:        "Pizza",
			Description: "Thin crust with tomato and mozzarella",
			Price:       12.5,
			Ingredients: []domain.Ingredient{
				{Name: "Dough", Amount: 1},
				{Name: "Tomato", Amount: 3},
				{Name: "Cheese", Amount: 2},
			},
		},
		{
			Name:        "Burger",
			Description: "Beef patty, lettuce, tomato and cheese",
			Price:       9,
			Ingredients: []domain.Ingredient{
				{Name: "Bun", Amount: 1},
				{Name: "Beef", Amount: 1},
				{Name: "Lettuce", Amount: 1},
				{Name: "Tomato", Amount: 1},
				{Name: "Cheese", Amount: 1},
			},
		},
		{
			Name:        "Chicken Plov",
			Description: "Saffron rice with braised chicken",
			Price:       11,
			Ingredients: []domain.Ingredient{
				{Name: "Rice", Amount: 2},
				{Name: "Chicken", Amount: 1},
			},
		},
		{
			Name:        "Garden Salad",
			Description: "Lettuce and tomato, no dressing",
			Price:       5.5,
			Ingredients: []domain.Ingredient{
				{Name: "Lettuce", Amount: 2},
				{Name: "Tomato", Amount: 1},
			},
		},
	}
}
