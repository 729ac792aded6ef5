package models

import (
	"net/url"
	"sort"
	"strings"
)

// FilterKey names one of the filterable dimensions of the sales table.
type FilterKey string

const (
	FilterDateRange      FilterKey = "date_range"      // "YYYY-MM-DD,YYYY-MM-DD", opaque to the client
	FilterCategory       FilterKey = "category"        // product category
	FilterDeliveryStatus FilterKey = "delivery_status" // Delivered, In Transit, Cancelled
	FilterPlatform       FilterKey = "platform"        // Amazon, Flipkart, Meesho...
	FilterState          FilterKey = "state"           // delivery address state
)

// FilterKeys lists every recognized key in display order.
var FilterKeys = []FilterKey{
	FilterDateRange,
	FilterCategory,
	FilterDeliveryStatus,
	FilterPlatform,
	FilterState,
}

// ParseFilterKey converts a raw key into a FilterKey, rejecting unknown keys.
func ParseFilterKey(raw string) (FilterKey, error) {
	for _, k := range FilterKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", &ValidationError{Key: raw}
}

// FilterCriteria is the active filter predicate. The zero value places no
// constraint on any field. Values are compared with ==.
type FilterCriteria struct {
	DateRange      string
	Category       string
	DeliveryStatus string
	Platform       string
	State          string
}

// ClearCriteria returns the canonical unconstrained criteria.
func ClearCriteria() FilterCriteria {
	return FilterCriteria{}
}

// SetField returns a copy of c with key set to value.
// The receiver is never modified.
func (c FilterCriteria) SetField(key FilterKey, value string) (FilterCriteria, error) {
	switch key {
	case FilterDateRange:
		c.DateRange = value
	case FilterCategory:
		c.Category = value
	case FilterDeliveryStatus:
		c.DeliveryStatus = value
	case FilterPlatform:
		c.Platform = value
	case FilterState:
		c.State = value
	default:
		return c, &ValidationError{Key: string(key)}
	}
	return c, nil
}

// Get returns the value held for key.
func (c FilterCriteria) Get(key FilterKey) (string, error) {
	switch key {
	case FilterDateRange:
		return c.DateRange, nil
	case FilterCategory:
		return c.Category, nil
	case FilterDeliveryStatus:
		return c.DeliveryStatus, nil
	case FilterPlatform:
		return c.Platform, nil
	case FilterState:
		return c.State, nil
	}
	return "", &ValidationError{Key: string(key)}
}

// IsEmpty reports whether no field is constrained.
func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

// Serialize projects the criteria onto query parameters. Keys with an empty
// value are omitted entirely.
func (c FilterCriteria) Serialize() QueryParams {
	params := make(QueryParams, len(FilterKeys))
	for _, k := range FilterKeys {
		v, _ := c.Get(k)
		if v == "" {
			continue
		}
		params[string(k)] = v
	}
	return params
}

// String renders the constrained fields as key=value pairs for status lines and logs.
func (c FilterCriteria) String() string {
	if c.IsEmpty() {
		return "(no filters)"
	}
	var parts []string
	for _, k := range FilterKeys {
		if v, _ := c.Get(k); v != "" {
			parts = append(parts, string(k)+"="+v)
		}
	}
	return strings.Join(parts, " ")
}

// QueryParams is the transport-ready form of a FilterCriteria.
type QueryParams map[string]string

// Values converts the params into url.Values.
func (p QueryParams) Values() url.Values {
	v := make(url.Values, len(p))
	for k, val := range p {
		v.Set(k, val)
	}
	return v
}

// Encode returns the URL-encoded query, sorted by key.
func (p QueryParams) Encode() string {
	return p.Values().Encode()
}

// Keys returns the parameter names in sorted order.
func (p QueryParams) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseQueryParams rebuilds a FilterCriteria from a serialized query.
// Unknown keys are rejected; only the first value of each key is used.
func ParseQueryParams(values url.Values) (FilterCriteria, error) {
	var c FilterCriteria
	for raw, vals := range values {
		key, err := ParseFilterKey(raw)
		if err != nil {
			return FilterCriteria{}, err
		}
		if len(vals) == 0 {
			continue
		}
		c, _ = c.SetField(key, vals[0])
	}
	return c, nil
}
