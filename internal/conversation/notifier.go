package conversation

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// PrintFunc prints one line of output. Matches display.UI.PrintChat and
// display.UI.PrintUrgent.
type PrintFunc func(text string)

// CLINotifier writes notifications through the display.
type CLINotifier struct {
	log      *logger.Logger
	printFn  PrintFunc
	urgentFn PrintFunc
}

// NewCLINotifier creates a console notifier. Nil print functions fall back
// to stdout.
func NewCLINotifier(log *logger.Logger, printFn, urgentFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(text string) { fmt.Println(text) }
	}
	if urgentFn == nil {
		urgentFn = func(text string) { fmt.Println("!! " + text) }
	}
	return &CLINotifier{log: log, printFn: printFn, urgentFn: urgentFn}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn(message)
	return nil
}

// NotifyUrgent prints an urgent notification.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.urgentFn(message)
	return nil
}
