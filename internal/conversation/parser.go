// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using menu numbers, keywords
// and simple patterns. Rules are per panel.
type KeywordParser struct {
	log    *logger.Logger
	panels map[domain.Panel]panelRules
}

type panelRules struct {
	numbers  map[string]domain.IntentType
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// Rules shared by every panel.
var common = []patternRule{
	{regexp.MustCompile(`(?i)^(help|h|\?|menu)$`), domain.IntentHelp},
	{regexp.MustCompile(`(?i)^(exit|quit|q|back|logout|log out)$`), domain.IntentExit},
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.panels = map[domain.Panel]panelRules{
		domain.PanelMain: {
			numbers: map[string]domain.IntentType{
				"1": domain.IntentSignIn,
				"2": domain.IntentSignUp,
				"0": domain.IntentExit,
			},
			patterns: []patternRule{
				{regexp.MustCompile(`(?i)^(sign ?in|log ?in)$`), domain.IntentSignIn},
				{regexp.MustCompile(`(?i)^(sign ?up|register)$`), domain.IntentSignUp},
			},
		},
		domain.PanelAdmin: {
			numbers: map[string]domain.IntentType{
				"1": domain.IntentAddDish,
				"2": domain.IntentEditDish,
				"3": domain.IntentDeleteDish,
				"4": domain.IntentListDishes,
				"5": domain.IntentAddStock,
				"6": domain.IntentShowStock,
				"7": domain.IntentAdvanceOrder,
				"8": domain.IntentListOrders,
				"0": domain.IntentExit,
			},
			patterns: []patternRule{
				{regexp.MustCompile(`(?i)^(add|new) dish\b`), domain.IntentAddDish},
				{regexp.MustCompile(`(?i)^(edit|update|change) dish\b`), domain.IntentEditDish},
				{regexp.MustCompile(`(?i)^(delete|remove) dish\b`), domain.IntentDeleteDish},
				{regexp.MustCompile(`(?i)^(dishes|list dishes|show dishes)$`), domain.IntentListDishes},
				{regexp.MustCompile(`(?i)^(add stock|restock|credit)\b`), domain.IntentAddStock},
				{regexp.MustCompile(`(?i)^(stock|show stock|inventory)$`), domain.IntentShowStock},
				{regexp.MustCompile(`(?i)^(advance|next|move)\b`), domain.IntentAdvanceOrder},
				{regexp.MustCompile(`(?i)^(orders|list orders|show orders)$`), domain.IntentListOrders},
			},
		},
		domain.PanelUser: {
			numbers: map[string]domain.IntentType{
				"1": domain.IntentPlaceOrder,
				"2": domain.IntentOrderStatus,
				"3": domain.IntentProfile,
				"0": domain.IntentExit,
			},
			patterns: []patternRule{
				{regexp.MustCompile(`(?i)^(order|place order|create order)\b`), domain.IntentPlaceOrder},
				{regexp.MustCompile(`(?i)^(status|where|my order)$`), domain.IntentOrderStatus},
				{regexp.MustCompile(`(?i)^(profile|me|whoami)$`), domain.IntentProfile},
			},
		},
	}
	return p
}

// Parse converts user input into an intent for the given panel. Keyword
// intents carry whatever follows the keyword as payload, e.g. "advance U1".
func (p *KeywordParser) Parse(ctx context.Context, input string, panel domain.Panel) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input on %s panel: %q", panel, trimmed)

	rules, ok := p.panels[panel]
	if !ok {
		return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
	}

	// Menu choice by number.
	if intent, ok := rules.numbers[trimmed]; ok {
		return &domain.Intent{Type: intent}, nil
	}

	for _, set := range [][]patternRule{rules.patterns, common} {
		for _, rule := range set {
			if loc := rule.regex.FindStringIndex(trimmed); loc != nil {
				p.log.Debug("matched intent: %s", rule.intent)
				return &domain.Intent{Type: rule.intent, Payload: strings.TrimSpace(trimmed[loc[1]:])}, nil
			}
		}
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}
