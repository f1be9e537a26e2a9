package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottoserve/internal/domain"
)

func (a *cliApp) addDish(ctx context.Context, name string) error {
	name, err := a.ask(ctx, "Enter dish name:", name)
	if err != nil {
		return err
	}
	desc, err := a.ask(ctx, "Enter dish description:", "")
	if err != nil {
		return err
	}
	price, err := a.askFloat(ctx, "Enter dish price:", "dish price")
	if err != nil {
		return err
	}
	// Check the header fields before asking for the recipe.
	if _, err := domain.NewDish(name, desc, price); err != nil {
		return err
	}

	count, err := a.askInt(ctx, "How many ingredients?", "ingredient count", "")
	if err != nil {
		return err
	}
	if count < 0 {
		return &domain.ValidationError{Field: "ingredient count", Reason: "cannot be negative"}
	}

	var recipe []domain.Ingredient
	for i := 1; i <= count; i++ {
		ingName, err := a.ask(ctx, fmt.Sprintf("Ingredient %d name:", i), "")
		if err != nil {
			return err
		}
		amount, err := a.askFloat(ctx, "Amount:", "ingredient amount")
		if err != nil {
			return err
		}
		ing, err := domain.NewIngredient(ingName, amount)
		if err != nil {
			return err
		}
		recipe = append(recipe, ing)
	}

	d, err := domain.NewDish(name, desc, price, recipe...)
	if err != nil {
		return err
	}
	if err := a.menu.Add(ctx, d); err != nil {
		return err
	}
	a.con.PrintChat("Dish successfully added!")
	return nil
}

func (a *cliApp) editDish(ctx context.Context, name string) error {
	if a.menu.Len() == 0 {
		a.con.PrintHint("No dishes available.")
		return nil
	}
	name, err := a.ask(ctx, "Enter dish name to edit:", name)
	if err != nil {
		return err
	}
	if _, err := a.menu.Get(name); err != nil {
		return err
	}
	desc, err := a.ask(ctx, "New description:", "")
	if err != nil {
		return err
	}
	price, err := a.askFloat(ctx, "New price:", "dish price")
	if err != nil {
		return err
	}
	if _, err := a.menu.Edit(ctx, name, desc, price); err != nil {
		return err
	}
	a.con.PrintChat("Dish updated!")
	return nil
}

func (a *cliApp) deleteDish(ctx context.Context, name string) error {
	if a.menu.Len() == 0 {
		a.con.PrintHint("No dishes to delete.")
		return nil
	}
	name, err := a.ask(ctx, "Enter dish name to delete:", name)
	if err != nil {
		return err
	}
	if err := a.menu.Remove(ctx, name); err != nil {
		return err
	}
	a.con.PrintChat("Dish deleted!")
	return nil
}

func (a *cliApp) listDishes() {
	dishes := a.menu.List()
	if len(dishes) == 0 {
		a.con.PrintHint("Menu is empty.")
		return
	}
	for _, d := range dishes {
		a.con.PrintLine("-----------------------------------------------")
		a.con.PrintLine(fmt.Sprintf("Dish: %s | Price: %.2f", d.Name, d.Price))
		a.con.PrintHint(d.Description)
		for _, ing := range d.Ingredients {
			a.con.PrintHint(fmt.Sprintf("  - %s: %g", ing.Name, ing.Amount))
		}
	}
	a.con.PrintLine("-----------------------------------------------")
}

// addStock credits an ingredient. The payload may carry "name amount".
func (a *cliApp) addStock(ctx context.Context, payload string) error {
	var name, amountStr string
	if fields := strings.Fields(payload); len(fields) >= 2 {
		name = strings.Join(fields[:len(fields)-1], " ")
		amountStr = fields[len(fields)-1]
	}

	name, err := a.ask(ctx, "Enter ingredient name:", name)
	if err != nil {
		return err
	}
	var amount float64
	if amountStr != "" {
		if amount, err = strconv.ParseFloat(amountStr, 64); err != nil {
			return &domain.ValidationError{Field: "ingredient amount", Reason: fmt.Sprintf("%q is not a number", amountStr)}
		}
	} else if amount, err = a.askFloat(ctx, "Enter amount:", "ingredient amount"); err != nil {
		return err
	}

	ing, err := a.stock.Credit(ctx, name, amount)
	if err != nil {
		return err
	}
	a.con.PrintChat(fmt.Sprintf("Stock updated: %s now %g.", ing.Name, ing.Amount))
	return nil
}

func (a *cliApp) showStock() {
	items := a.stock.List()
	if len(items) == 0 {
		a.con.PrintHint("Stock is empty.")
		return
	}
	a.con.PrintHeader("===== STOCK =====")
	for _, ing := range items {
		line := fmt.Sprintf("%s: %g", ing.Name, ing.Amount)
		if ing.Amount < a.lowStock {
			a.con.PrintUrgent(line + " (low)")
			continue
		}
		a.con.PrintLine(line)
	}
}

func (a *cliApp) advanceOrder(ctx context.Context, userID string) error {
	if userID == "" {
		a.listOrders()
	}
	userID, err := a.ask(ctx, "Enter User ID:", userID)
	if err != nil {
		return err
	}

	// Progress is announced through the engine's notifier.
	_, err = a.engine.Advance(ctx, userID)
	var nf *domain.NotFoundError
	if errors.As(err, &nf) && nf.Entity == "order" {
		a.con.PrintUrgent("Order not found!")
		return nil
	}
	return err
}

func (a *cliApp) listOrders() {
	orders := a.engine.Orders()
	if len(orders) == 0 {
		a.con.PrintHint("No orders yet.")
		return
	}
	a.con.PrintHeader("===== ORDERS =====")
	for _, o := range orders {
		a.con.PrintLine(fmt.Sprintf("User: %s | Dish: %s | Status: %s | Updated: %s",
			o.UserID, o.DishName, o.Status, o.UpdatedAt.Format("Jan 2 15:04")))
	}
}
