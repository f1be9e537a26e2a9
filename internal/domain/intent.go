package domain

// Panel is the menu the user is currently looking at. The same input can mean
// different things in different panels ("1" signs in on the main panel but
// adds a dish on the admin panel).
type Panel int

const (
	PanelMain Panel = iota
	PanelAdmin
	PanelUser
)

// String returns a human-readable panel name.
func (p Panel) String() string {
	switch p {
	case PanelMain:
		return "main"
	case PanelAdmin:
		return "admin"
	case PanelUser:
		return "user"
	default:
		return "unknown"
	}
}

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentHelp
	IntentExit

	// Main panel.
	IntentSignIn
	IntentSignUp

	// Admin panel.
	IntentAddDish
	IntentEditDish
	IntentDeleteDish
	IntentListDishes
	IntentAddStock
	IntentShowStock
	IntentAdvanceOrder
	IntentListOrders

	// User panel.
	IntentPlaceOrder
	IntentOrderStatus
	IntentProfile
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentHelp:
		return "help"
	case IntentExit:
		return "exit"
	case IntentSignIn:
		return "sign_in"
	case IntentSignUp:
		return "sign_up"
	case IntentAddDish:
		return "add_dish"
	case IntentEditDish:
		return "edit_dish"
	case IntentDeleteDish:
		return "delete_dish"
	case IntentListDishes:
		return "list_dishes"
	case IntentAddStock:
		return "add_stock"
	case IntentShowStock:
		return "show_stock"
	case IntentAdvanceOrder:
		return "advance_order"
	case IntentListOrders:
		return "list_orders"
	case IntentPlaceOrder:
		return "place_order"
	case IntentOrderStatus:
		return "order_status"
	case IntentProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional argument, e.g. the user ID after "advance"
}
