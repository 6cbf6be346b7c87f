package filterexpr

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"
)

// OrderSchema describes ordering defaults and whitelisted keys.
type OrderSchema struct {
	DefaultPrimary     string
	DefaultPrimaryDesc bool
	FallbackKey        string
	FallbackDesc       bool
	Fields             []string
}

// Order is a resolved two-key ordering.
type Order struct {
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

// ParseOrderBy parses "key [asc|desc], key [asc|desc]" against schema.
func ParseOrderBy(raw string, schema OrderSchema) (Order, error) { //nolint:gocognit,gocyclo // parsing DSL entails validation branches for readability
	allowed := make(map[string]struct{}, len(schema.Fields))
	for _, f := range schema.Fields {
		allowed[f] = struct{}{}
	}

	if schema.DefaultPrimary == "" {
		return Order{}, errors.New("order schema default primary key required")
	}
	if schema.FallbackKey == "" {
		return Order{}, errors.New("order schema fallback key required")
	}
	if _, ok := allowed[schema.DefaultPrimary]; !ok {
		return Order{}, fmt.Errorf("order key %q missing from schema fields", schema.DefaultPrimary)
	}
	if _, ok := allowed[schema.FallbackKey]; !ok {
		return Order{}, fmt.Errorf("fallback order key %q missing from schema fields", schema.FallbackKey)
	}

	ord := Order{
		PrimaryKey:    schema.DefaultPrimary,
		PrimaryDesc:   schema.DefaultPrimaryDesc,
		SecondaryKey:  schema.FallbackKey,
		SecondaryDesc: schema.FallbackDesc,
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ord, nil
	}

	seen := map[string]struct{}{}
	idx := 0
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if _, ok := allowed[key]; !ok {
			return Order{}, fmt.Errorf("field %q cannot be used for ordering", key)
		}

		desc := false
		switch len(parts) {
		case 1:
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return Order{}, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return Order{}, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		if _, dup := seen[key]; dup {
			return Order{}, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}

		switch idx {
		case 0:
			ord.PrimaryKey, ord.PrimaryDesc = key, desc
		case 1:
			ord.SecondaryKey, ord.SecondaryDesc = key, desc
		default:
			return Order{}, errors.New("order_by supports at most two keys")
		}
		idx++
	}

	if ord.SecondaryKey == ord.PrimaryKey {
		// fall back to the first other whitelisted key so that ordering stays total
		for _, key := range schema.Fields {
			if key != ord.PrimaryKey {
				ord.SecondaryKey, ord.SecondaryDesc = key, false
				break
			}
		}
		if ord.SecondaryKey == ord.PrimaryKey {
			return Order{}, errors.New("order schema requires at least two distinct keys for stable ordering")
		}
	}
	return ord, nil
}

// Compare orders the records a and b, given as variable maps.
func (o Order) Compare(a, b map[string]any) int {
	if c := compareValues(a[o.PrimaryKey], b[o.PrimaryKey]); c != 0 {
		if o.PrimaryDesc {
			return -c
		}
		return c
	}
	c := compareValues(a[o.SecondaryKey], b[o.SecondaryKey])
	if o.SecondaryDesc {
		return -c
	}
	return c
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok && x != y {
			if !x {
				return -1
			}
			return 1
		}
		return 0
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return 0
}
