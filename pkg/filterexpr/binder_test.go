package filterexpr

import (
	"sort"
	"testing"
	"time"
)

var itemsSchema = ResourceSchema{
	Filter: map[string]ValueKind{
		"state":       KindString,
		"price":       KindNumber,
		"stock":       KindInt,
		"featured":    KindBool,
		"create_time": KindTimestamp,
	},
	Order: OrderSchema{
		DefaultPrimary:     "create_time",
		DefaultPrimaryDesc: true,
		FallbackKey:        "state",
		Fields:             []string{"create_time", "state", "price"},
	},
}

type listItemsRequest struct {
	Filter  string
	OrderBy string
}

func (r listItemsRequest) GetFilter() string  { return r.Filter }
func (r listItemsRequest) GetOrderBy() string { return r.OrderBy }

func item(state string, price float64, stock int, created time.Time) map[string]any {
	return map[string]any{
		"state":       state,
		"price":       price,
		"stock":       stock,
		"featured":    stock > 10,
		"create_time": created,
	}
}

func TestCompileAndMatch(t *testing.T) {
	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		filter string
		want   bool
	}{
		{"", true},
		{"state == 'ACTIVE' && price <= 1000", true},
		{"price > 20", false},
		{"stock >= 3 && featured", true},
		{"state.startsWith('AC') || price < 0", true},
		{"state in ['ARCHIVED', 'DRAFT']", false},
		{"create_time >= timestamp('2025-01-01T00:00:00Z')", true},
		{"!(create_time < timestamp('2025-03-01T00:00:00Z'))", false},
	}
	rec := item("ACTIVE", 19.5, 12, created)
	for _, tc := range cases {
		pred, err := Compile(tc.filter, itemsSchema.Filter)
		if err != nil {
			t.Fatalf("Compile(%q) returned error: %v", tc.filter, err)
		}
		got, err := pred.Match(rec)
		if err != nil {
			t.Fatalf("Match(%q) returned error: %v", tc.filter, err)
		}
		if got != tc.want {
			t.Fatalf("Match(%q) = %v, want %v", tc.filter, got, tc.want)
		}
	}
}

func TestCompileRejectsInvalidFilters(t *testing.T) {
	for _, filter := range []string{
		"unknown == 1",
		"price",
		"state ==",
		"state == 1 + ",
	} {
		if _, err := Compile(filter, itemsSchema.Filter); err == nil {
			t.Fatalf("expected error for filter %q", filter)
		}
	}
	if _, err := Compile("state == 'x'", nil); err == nil {
		t.Fatalf("expected error for empty schema")
	}
}

func TestParseOrderBy(t *testing.T) {
	ord, err := ParseOrderBy("", itemsSchema.Order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ord.PrimaryKey != "create_time" || !ord.PrimaryDesc || ord.SecondaryKey != "state" {
		t.Fatalf("unexpected default order %+v", ord)
	}

	ord, err = ParseOrderBy("price desc, create_time", itemsSchema.Order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Order{PrimaryKey: "price", PrimaryDesc: true, SecondaryKey: "create_time"}
	if ord != want {
		t.Fatalf("got %+v, want %+v", ord, want)
	}

	ord, err = ParseOrderBy("state", itemsSchema.Order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ord.SecondaryKey == "state" {
		t.Fatalf("secondary key must differ from primary, got %+v", ord)
	}

	for _, raw := range []string{"stock", "price sideways", "price, price", "price, state, create_time", "price desc extra"} {
		if _, err := ParseOrderBy(raw, itemsSchema.Order); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestBindSortsAndFilters(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []map[string]any{
		item("ACTIVE", 30, 1, base),
		item("ACTIVE", 10, 5, base.Add(time.Hour)),
		item("DRAFT", 10, 5, base.Add(2*time.Hour)),
		item("ACTIVE", 10, 2, base.Add(3*time.Hour)),
	}

	q, err := Bind(listItemsRequest{Filter: "state == 'ACTIVE'", OrderBy: "price asc, create_time desc"}, itemsSchema)
	if err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	var kept []map[string]any
	for _, r := range records {
		ok, err := q.Predicate.Match(r)
		if err != nil {
			t.Fatalf("Match returned error: %v", err)
		}
		if ok {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return q.Order.Compare(kept[i], kept[j]) < 0 })

	if len(kept) != 3 {
		t.Fatalf("expected 3 records, got %d", len(kept))
	}
	if kept[0]["stock"] != 2 || kept[1]["stock"] != 5 || kept[2]["price"] != 30.0 {
		t.Fatalf("unexpected order: %v", kept)
	}
}

func TestBindReportsErrors(t *testing.T) {
	if _, err := Bind(listItemsRequest{Filter: "nope == 1"}, itemsSchema); err == nil {
		t.Fatalf("expected filter error")
	}
	if _, err := Bind(listItemsRequest{OrderBy: "nope"}, itemsSchema); err == nil {
		t.Fatalf("expected order error")
	}
}
