package router

import (
	"reflect"
	"testing"
)

func TestRouteListAll(t *testing.T) {
	r := New()
	for _, query := range []string{
		"Покажи все продукты",
		"show products",
		"  please show products now  ",
		"please list_products now",
		"Выведи список",
	} {
		outcome := r.Route(query)
		if !outcome.IsCall() {
			t.Fatalf("Route(%q) produced no call: %+v", query, outcome)
		}
		if outcome.Call.Tool != "list_products" {
			t.Fatalf("Route(%q) tool = %q", query, outcome.Call.Tool)
		}
		if len(outcome.Call.Arguments) != 0 {
			t.Fatalf("Route(%q) arguments = %v, want empty", query, outcome.Call.Arguments)
		}
	}
}

func TestRouteListByCategory(t *testing.T) {
	r := New()

	outcome := r.Route("Покажи продукты в категории Электроника")
	if !outcome.IsCall() || outcome.Call.Tool != "list_products" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if got := outcome.Call.Arguments["category"]; got != "Электроника" {
		t.Fatalf("category = %v", got)
	}

	// The extracted token keeps the original casing of the query.
	outcome = r.Route("products in category Books")
	if got := outcome.Call.Arguments["category"]; got != "Books" {
		t.Fatalf("category = %v", got)
	}

	// A bare category phrase falls back to the default literal.
	outcome = r.Route("электроника")
	if got := outcome.Call.Arguments["category"]; got != DefaultCategory {
		t.Fatalf("category = %v", got)
	}
}

func TestRouteListAllBeatsCategory(t *testing.T) {
	// Both rules share vocabulary; list-all is earlier in the table.
	outcome := New().Route("Покажи все продукты в категории Электроника")
	if !outcome.IsCall() || outcome.Call.Tool != "list_products" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if len(outcome.Call.Arguments) != 0 {
		t.Fatalf("expected unfiltered listing, got %v", outcome.Call.Arguments)
	}
}

func TestRouteStatistics(t *testing.T) {
	r := New()
	for _, query := range []string{
		"Какая средняя цена продуктов?",
		"Статистика по товарам",
		"give me the statistics",
	} {
		outcome := r.Route(query)
		if !outcome.IsCall() || outcome.Call.Tool != "get_statistics" {
			t.Fatalf("Route(%q) = %+v", query, outcome)
		}
	}
}

func TestRouteGetByID(t *testing.T) {
	outcome := New().Route("Найди товар с ID 1")
	if !outcome.IsCall() || outcome.Call.Tool != "get_product" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if got := outcome.Call.Arguments["product_id"]; got != 1 {
		t.Fatalf("product_id = %v (%T)", got, got)
	}
}

func TestRouteGetByIDWithoutNumber(t *testing.T) {
	outcome := New().Route("Найди товар с ID")
	if outcome.IsCall() {
		t.Fatalf("expected a clarification, got call %+v", outcome.Call)
	}
	if outcome.Message != "Please specify a product ID." {
		t.Fatalf("message = %q", outcome.Message)
	}
}

func TestRouteAdd(t *testing.T) {
	outcome := New().Route("Добавь новый товар Телефон")
	if outcome.IsCall() {
		t.Fatalf("add must not issue a call, got %+v", outcome.Call)
	}
	if outcome.Message == "" {
		t.Fatal("expected a clarification message")
	}
}

func TestRouteCalculate(t *testing.T) {
	outcome := New().Route("Посчитай скидку 15% от 50000")
	if !outcome.IsCall() || outcome.Call.Tool != "calculator" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if got := outcome.Call.Arguments["expression"]; got != "15% of 50000" {
		t.Fatalf("expression = %v", got)
	}
}

func TestRouteCalculateWithoutNumbers(t *testing.T) {
	r := New()

	outcome := r.Route("посчитай что-нибудь")
	if outcome.IsCall() || outcome.Message == "" {
		t.Fatalf("expected help message, got %+v", outcome)
	}

	outcome = r.Route("какая скидка лучше %")
	if outcome.IsCall() || outcome.Message == "" {
		t.Fatalf("expected help message, got %+v", outcome)
	}
}

func TestRouteGetByIDBeatsCalculate(t *testing.T) {
	// Table order is the contract: the id marker wins over the percent sign.
	outcome := New().Route("Посчитай скидку 15% на товар с ID 1")
	if !outcome.IsCall() || outcome.Call.Tool != "get_product" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if got := outcome.Call.Arguments["product_id"]; got != 1 {
		t.Fatalf("product_id = %v", got)
	}
}

func TestRouteDefault(t *testing.T) {
	r := New()
	for _, query := range []string{"Привет, как дела?", "", "   "} {
		outcome := r.Route(query)
		if outcome.IsCall() {
			t.Fatalf("Route(%q) produced call %+v", query, outcome.Call)
		}
		if outcome.Message != "How can I help you with product management?" {
			t.Fatalf("Route(%q) message = %q", query, outcome.Message)
		}
	}
}

func TestRouteIsPure(t *testing.T) {
	r := New()
	for _, query := range []string{
		"Покажи все продукты",
		"Найди товар с ID 42",
		"Посчитай скидку 20% от 1000",
		"что-то непонятное",
	} {
		first := r.Route(query)
		second := r.Route(query)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Route(%q) is not deterministic: %+v vs %+v", query, first, second)
		}
	}
}

func TestRuleOrder(t *testing.T) {
	want := []string{
		"list-all", "list-by-category", "statistics",
		"get-by-id", "add", "calculate", "default",
	}
	if got := New().Rules(); !reflect.DeepEqual(got, want) {
		t.Fatalf("rule order = %v, want %v", got, want)
	}
}
