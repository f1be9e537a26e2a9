package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/user"
)

func (a *cliApp) signIn(ctx context.Context) error {
	username, err := a.ask(ctx, "Username:", "")
	if err != nil {
		return err
	}
	password, err := a.askSecret(ctx, "Password:")
	if err != nil {
		return err
	}

	s, err := a.users.SignIn(username, password)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			a.con.PrintUrgent("Wrong username or password!")
			return nil
		}
		return err
	}

	if s.Admin {
		a.con.PrintChat("Logged in as Admin.")
		a.enter(domain.PanelAdmin)
		return nil
	}
	a.current = s.User
	a.con.PrintChat("Login successful!")
	a.enter(domain.PanelUser)
	return nil
}

func (a *cliApp) signUp(ctx context.Context) error {
	var f user.Form
	fields := []struct {
		question string
		dst      *string
		secret   bool
	}{
		{"ID (7 uppercase letters or digits):", &f.ID, false},
		{"Username:", &f.Username, false},
		{"Password:", &f.Password, true},
		{"Email:", &f.Email, false},
		{"Name:", &f.Name, false},
		{"Surname:", &f.Surname, false},
		{"Phone number (+994...):", &f.Phone, false},
		{"Gender (Male/Female):", &f.Gender, false},
	}
	for _, fl := range fields {
		var err error
		if fl.secret {
			*fl.dst, err = a.askSecret(ctx, fl.question)
		} else {
			*fl.dst, err = a.ask(ctx, fl.question, "")
		}
		if err != nil {
			return err
		}
	}

	birth, err := a.ask(ctx, "Birthdate (d/m/yyyy):", "")
	if err != nil {
		return err
	}
	if _, err := fmt.Sscanf(birth, "%d/%d/%d", &f.Day, &f.Month, &f.Year); err != nil {
		return &domain.ValidationError{Field: "birthdate", Reason: "use day/month/year, e.g. 29/2/2000"}
	}
	card, err := a.ask(ctx, "Card number (- to skip):", "")
	if err != nil {
		return err
	}
	if card != "-" {
		f.Card = card
	}

	u, err := a.users.SignUp(ctx, f)
	if err != nil {
		return err
	}
	a.con.PrintChat(fmt.Sprintf("User registered! Sign in as %s.", u.Username))
	return nil
}

func (a *cliApp) placeOrder(ctx context.Context, payload string) error {
	dishes := a.menu.List()
	if len(dishes) == 0 {
		a.con.PrintHint("Menu is empty.")
		return nil
	}
	if payload == "" {
		a.con.PrintHeader("===== MENU =====")
		for i, d := range dishes {
			a.con.PrintLine(fmt.Sprintf("%d) %s  Price: %.2f", i, d.Name, d.Price))
		}
	}

	idx, err := a.askInt(ctx, "Enter dish index:", "dish index", payload)
	if err != nil {
		return err
	}
	d, err := a.menu.At(idx)
	if err != nil {
		a.con.PrintUrgent("Invalid dish index!")
		return nil
	}
	if _, err := a.engine.PlaceOrder(ctx, a.current.ID, d.Name); err != nil {
		return err
	}
	a.con.PrintChat("Order created!")

	// The order is accepted either way; the kitchen debits stock when it
	// starts cooking.
	if err := a.stock.Check(d.Ingredients); err != nil {
		a.log.Info("order for %s placed without stock: %v", d.Name, err)
		a.con.PrintHint("Heads up: the kitchen is short right now (" + err.Error() + "), so your order may wait.")
	}
	return nil
}

func (a *cliApp) orderStatus() {
	o, err := a.engine.Status(a.current.ID)
	if err != nil {
		a.con.PrintHint("You have no active orders.")
		return
	}
	a.con.PrintLine(fmt.Sprintf("Dish: %s | Status: %s", o.DishName, o.Status))
}

func (a *cliApp) profile() {
	u, err := a.users.Get(a.current.ID)
	if err != nil {
		a.report(err)
		return
	}
	a.con.PrintHeader("===== PROFILE =====")
	for _, l := range []string{
		"ID: " + u.ID,
		"Username: " + u.Username,
		"Email: " + u.Email,
		"Name: " + u.Name + " " + u.Surname,
		"Phone: " + u.Phone,
		"Gender: " + u.Gender.String(),
		fmt.Sprintf("Birthdate: %s (age %d)", u.Birthdate.Format("2/1/2006"), u.Age(time.Now())),
	} {
		a.con.PrintLine(l)
	}
	if u.Card != "" {
		a.con.PrintLine("Card: " + maskCard(u.Card))
	}

	history := a.engine.History(u.ID)
	if len(history) == 0 {
		return
	}
	a.con.PrintHeader("===== ORDER HISTORY =====")
	for _, o := range history {
		a.con.PrintLine(fmt.Sprintf("%s  %s | Status: %s", o.PlacedAt.Format("Jan 2 15:04"), o.DishName, o.Status))
	}
}

// maskCard keeps the last four characters.
func maskCard(card string) string {
	if len(card) <= 4 {
		return card
	}
	return fmt.Sprintf("**** %s", card[len(card)-4:])
}
