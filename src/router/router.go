// Package router maps free-text user queries onto tool calls.
//
// Routing is a fixed, ordered rule table with first-match-wins semantics.
// The ordering is part of the contract: several rules share vocabulary
// (listing and category filtering both mention products), so reordering
// changes behavior. Matching happens on a lowercased copy of the query;
// values extracted for tool arguments come from the original text.
package router

import (
	"strconv"
	"strings"
)

// ToolCall names a provider operation and its argument mapping.
type ToolCall struct {
	Tool      string
	Arguments map[string]any
}

// Outcome is the result of routing a query: either a tool call or a
// user-facing message when no tool applies. Exactly one field is set.
type Outcome struct {
	Call    *ToolCall
	Message string
}

// IsCall reports whether the outcome selected a tool.
func (o Outcome) IsCall() bool { return o.Call != nil }

// Rule pairs a predicate over the normalized query with a resolver that
// produces the outcome. Rules are evaluated strictly in table order.
type Rule struct {
	Name string
	// Match receives the lowercased, trimmed query.
	Match func(q string) bool
	// Resolve receives the original query and its normalized form.
	Resolve func(raw, q string) Outcome
}

// Router is an immutable ordered rule table. It is pure: Route performs
// no I/O and identical input always yields an identical outcome.
type Router struct {
	rules []Rule
}

const (
	// DefaultCategory is what bare category phrases resolve to when the
	// query names no category of its own.
	DefaultCategory = "Электроника"

	msgAskProductID = "Please specify a product ID."
	msgAskAddFields = "To add a product, please provide: name, price, category, and in_stock status."
	msgCalcHelp     = "I can help with calculations. Please specify the expression."
	msgDiscountHelp = "I can help calculate discounts and prices."
	msgDefault      = "How can I help you with product management?"
)

var (
	listAllPhrases    = []string{"список", "все продукты", "show products", "list_products"}
	categoryPhrases   = []string{"категория", "категории", "category", "электроника"}
	statisticsPhrases = []string{"статистика", "statistics", "средняя цена"}
	productIDMarkers  = []string{"id", "номер"}
	addPhrases        = []string{"добавь", "add product", "новый"}
	calculatePhrases  = []string{"посчитай", "calculate", "discount", "скидка"}
)

// New builds a router with the default rule table.
func New() *Router {
	return &Router{rules: defaultRules()}
}

// Route classifies the query. It never fails: a query no rule claims is
// answered by the trailing catch-all rule.
func (r *Router) Route(query string) Outcome {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, rule := range r.rules {
		if rule.Match(q) {
			return rule.Resolve(query, q)
		}
	}
	// Unreachable: the last rule matches everything.
	return Outcome{Message: msgDefault}
}

// Rules exposes the rule names in evaluation order.
func (r *Router) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

func defaultRules() []Rule {
	return []Rule{
		{
			Name:  "list-all",
			Match: matchAny(listAllPhrases),
			Resolve: func(raw, q string) Outcome {
				return callOutcome("list_products", nil)
			},
		},
		{
			Name:  "list-by-category",
			Match: matchAny(categoryPhrases),
			Resolve: func(raw, q string) Outcome {
				return callOutcome("list_products", map[string]any{
					"category": extractCategory(raw),
				})
			},
		},
		{
			Name:  "statistics",
			Match: matchAny(statisticsPhrases),
			Resolve: func(raw, q string) Outcome {
				return callOutcome("get_statistics", nil)
			},
		},
		{
			Name:  "get-by-id",
			Match: matchToken(productIDMarkers),
			Resolve: func(raw, q string) Outcome {
				id, ok := extractProductID(q)
				if !ok {
					return Outcome{Message: msgAskProductID}
				}
				return callOutcome("get_product", map[string]any{"product_id": id})
			},
		},
		{
			Name:  "add",
			Match: matchAny(addPhrases),
			Resolve: func(raw, q string) Outcome {
				return Outcome{Message: msgAskAddFields}
			},
		},
		{
			Name: "calculate",
			Match: func(q string) bool {
				return strings.Contains(q, "%") || matchAny(calculatePhrases)(q)
			},
			Resolve: func(raw, q string) Outcome {
				if !strings.Contains(q, "%") {
					return Outcome{Message: msgCalcHelp}
				}
				expr, ok := derivePercentExpression(q)
				if !ok {
					return Outcome{Message: msgDiscountHelp}
				}
				return callOutcome("calculator", map[string]any{"expression": expr})
			},
		},
		{
			Name:  "default",
			Match: func(q string) bool { return true },
			Resolve: func(raw, q string) Outcome {
				return Outcome{Message: msgDefault}
			},
		},
	}
}

func callOutcome(tool string, args map[string]any) Outcome {
	if args == nil {
		args = map[string]any{}
	}
	return Outcome{Call: &ToolCall{Tool: tool, Arguments: args}}
}

func matchAny(phrases []string) func(string) bool {
	return func(q string) bool {
		for _, p := range phrases {
			if strings.Contains(q, p) {
				return true
			}
		}
		return false
	}
}

// matchToken matches whole tokens only, so "id" does not fire on words
// that merely contain it.
func matchToken(markers []string) func(string) bool {
	return func(q string) bool {
		for _, field := range strings.Fields(q) {
			field = trimPunct(field)
			for _, m := range markers {
				if field == m {
					return true
				}
			}
		}
		return false
	}
}

// extractCategory returns the token following a category marker in the
// original query, falling back to DefaultCategory when the phrase is bare
// (e.g. the category name itself triggered the rule).
func extractCategory(raw string) string {
	fields := strings.Fields(raw)
	for i, field := range fields {
		switch strings.ToLower(trimPunct(field)) {
		case "категория", "категории", "category":
			if i+1 < len(fields) {
				if cat := trimPunct(fields[i+1]); cat != "" {
					return cat
				}
			}
		}
	}
	return DefaultCategory
}

// extractProductID finds the first integer following an id marker token.
func extractProductID(q string) (int, bool) {
	fields := strings.Fields(q)
	for i, field := range fields {
		field = trimPunct(field)
		for _, m := range productIDMarkers {
			if field == m && i+1 < len(fields) {
				if id, err := strconv.Atoi(trimPunct(fields[i+1])); err == nil {
					return id, true
				}
			}
		}
	}
	return 0, false
}

// derivePercentExpression turns "... X% ... Y" into "X% of Y" using the
// numeric token right before the percent sign and the numeric token at the
// end of the remaining text.
func derivePercentExpression(q string) (string, bool) {
	before, after, found := strings.Cut(q, "%")
	if !found {
		return "", false
	}
	percent, ok := lastNumericField(before)
	if !ok {
		return "", false
	}
	amount, ok := lastNumericField(after)
	if !ok {
		return "", false
	}
	return percent + "% of " + amount, true
}

func lastNumericField(s string) (string, bool) {
	fields := strings.Fields(s)
	for i := len(fields) - 1; i >= 0; i-- {
		field := trimPunct(fields[i])
		if _, err := strconv.ParseFloat(field, 64); err == nil {
			return field, true
		}
	}
	return "", false
}

func trimPunct(s string) string {
	return strings.Trim(s, ".,!?:;()\"'")
}
