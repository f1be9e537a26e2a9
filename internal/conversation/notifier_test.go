package conversation

import (
	"context"
	"testing"

	"github.com/hammamikhairi/ottoserve/internal/logger"
)

func TestCLINotifierRoutes(t *testing.T) {
	var normal, urgent []string
	n := NewCLINotifier(logger.New(logger.LevelOff, nil),
		func(text string) { normal = append(normal, text) },
		func(text string) { urgent = append(urgent, text) },
	)
	ctx := context.Background()

	if err := n.Notify(ctx, "Order for Pizza progressed to status: Cooking"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := n.NotifyUrgent(ctx, "Order for Pizza is ready for pickup!"); err != nil {
		t.Fatalf("notify urgent: %v", err)
	}
	if len(normal) != 1 || len(urgent) != 1 {
		t.Fatalf("expected one message each, got %v / %v", normal, urgent)
	}
	if urgent[0] != "Order for Pizza is ready for pickup!" {
		t.Fatalf("unexpected urgent message: %q", urgent[0])
	}
}
