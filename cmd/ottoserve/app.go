package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/engine"
	"github.com/hammamikhairi/ottoserve/internal/logger"
	"github.com/hammamikhairi/ottoserve/internal/menu"
	"github.com/hammamikhairi/ottoserve/internal/stock"
	"github.com/hammamikhairi/ottoserve/internal/user"
)

// console is what the app needs from the terminal. Both display.UI and
// display.Plain satisfy it.
type console interface {
	InputChan() <-chan string
	SetMasked(masked bool)
	PrintChat(text string)
	PrintHeader(text string)
	PrintLine(text string)
	PrintHint(text string)
	PrintUrgent(text string)
}

// errInputClosed reports that the console has no more input.
var errInputClosed = errors.New("input closed")

type cliApp struct {
	engine   *engine.Engine
	menu     *menu.Menu
	stock    *stock.Store
	users    *user.Registry
	parser   domain.IntentParser
	con      console
	status   *kitchenStatus // nil in tests
	lowStock float64
	log      *logger.Logger

	panel   domain.Panel
	current *domain.User // signed-in customer on the user panel
}

func (a *cliApp) run(ctx context.Context) {
	a.enter(domain.PanelMain)

	for {
		input, err := a.readLine(ctx)
		if err != nil {
			return
		}
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input, a.panel)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			a.con.PrintUrgent("Invalid input!")
			continue
		}

		a.log.Debug("intent: %s payload=%q panel=%s", intent.Type, intent.Payload, a.panel)
		if quit := a.handleIntent(ctx, intent); quit {
			return
		}
	}
}

// handleIntent dispatches one intent and reports whether the program should
// exit.
func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	var err error

	switch intent.Type {
	case domain.IntentHelp:
		a.showMenu()
	case domain.IntentExit:
		return a.leave()

	case domain.IntentSignIn:
		err = a.signIn(ctx)
	case domain.IntentSignUp:
		err = a.signUp(ctx)

	case domain.IntentAddDish:
		err = a.addDish(ctx, intent.Payload)
	case domain.IntentEditDish:
		err = a.editDish(ctx, intent.Payload)
	case domain.IntentDeleteDish:
		err = a.deleteDish(ctx, intent.Payload)
	case domain.IntentListDishes:
		a.listDishes()
	case domain.IntentAddStock:
		err = a.addStock(ctx, intent.Payload)
	case domain.IntentShowStock:
		a.showStock()
	case domain.IntentAdvanceOrder:
		err = a.advanceOrder(ctx, intent.Payload)
	case domain.IntentListOrders:
		a.listOrders()

	case domain.IntentPlaceOrder:
		err = a.placeOrder(ctx, intent.Payload)
	case domain.IntentOrderStatus:
		a.orderStatus()
	case domain.IntentProfile:
		a.profile()

	default:
		a.con.PrintUrgent("Invalid choice!")
		a.con.PrintHint("Type 'help' to see the menu.")
	}

	if err != nil {
		if errors.Is(err, errInputClosed) || ctx.Err() != nil {
			return true
		}
		a.report(err)
	}
	return false
}

// enter switches panels and shows the new panel's menu.
func (a *cliApp) enter(p domain.Panel) {
	a.panel = p
	if p != domain.PanelUser {
		a.current = nil
	}
	if a.status != nil {
		a.status.setPanel(p, a.current)
	}
	a.showMenu()
}

// leave handles exit on the current panel. Only the main panel exits the
// program.
func (a *cliApp) leave() bool {
	switch a.panel {
	case domain.PanelAdmin:
		a.con.PrintChat("Exiting admin panel...")
	case domain.PanelUser:
		a.con.PrintChat("Signed out.")
	default:
		a.con.PrintChat("Exiting program...")
		return true
	}
	a.enter(domain.PanelMain)
	return false
}

func (a *cliApp) showMenu() {
	switch a.panel {
	case domain.PanelAdmin:
		a.con.PrintHeader("=== ADMIN PANEL ===")
		for _, l := range []string{
			"1. Add new dish",
			"2. Edit dish",
			"3. Delete dish",
			"4. Show all dishes",
			"5. Add ingredient to stock",
			"6. Show stock",
			"7. Move order status forward",
			"8. Show all orders",
			"0. Exit",
		} {
			a.con.PrintLine(l)
		}
	case domain.PanelUser:
		a.con.PrintHeader("=== USER PANEL ===")
		for _, l := range []string{"1. Create Order", "2. View Order Status", "3. View Profile", "0. Exit"} {
			a.con.PrintLine(l)
		}
	default:
		a.con.PrintHeader("=== OTTOSERVE ===")
		for _, l := range []string{"1. Sign In", "2. Sign Up", "0. Exit"} {
			a.con.PrintLine(l)
		}
	}
}

// readLine waits for the next input line.
func (a *cliApp) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-a.con.InputChan():
		if !ok {
			return "", errInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

// ask prints a question and returns the answer. Unless payload is set, in
// which case it was given on the command line and is used as the answer.
func (a *cliApp) ask(ctx context.Context, question, payload string) (string, error) {
	if payload != "" {
		return payload, nil
	}
	a.con.PrintChat(question)
	return a.readLine(ctx)
}

// askSecret is ask with typed characters hidden.
func (a *cliApp) askSecret(ctx context.Context, question string) (string, error) {
	a.con.SetMasked(true)
	defer a.con.SetMasked(false)
	return a.ask(ctx, question, "")
}

func (a *cliApp) askFloat(ctx context.Context, question, field string) (float64, error) {
	s, err := a.ask(ctx, question, "")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return v, nil
}

func (a *cliApp) askInt(ctx context.Context, question, field, payload string) (int, error) {
	s, err := a.ask(ctx, question, payload)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a whole number", s)}
	}
	return v, nil
}

// report prints an error for the user. Storage failures are logged too.
func (a *cliApp) report(err error) {
	if errors.Is(err, domain.ErrStorage) {
		a.log.Error("%v", err)
		a.con.PrintUrgent("Could not save changes: " + err.Error())
		return
	}
	a.log.Debug("reporting error: %v", err)
	a.con.PrintUrgent(sentence(err.Error()))
}

// sentence capitalizes the first letter and ends the message with "!".
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, ".") {
		s += "!"
	}
	return s
}
