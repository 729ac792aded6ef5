package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetField(t *testing.T) {
	tests := []struct {
		key   FilterKey
		value string
		want  FilterCriteria
	}{
		{FilterDateRange, "2024-01-01,2024-01-31", FilterCriteria{DateRange: "2024-01-01,2024-01-31"}},
		{FilterCategory, "Toys", FilterCriteria{Category: "Toys"}},
		{FilterDeliveryStatus, "Delivered", FilterCriteria{DeliveryStatus: "Delivered"}},
		{FilterPlatform, "Amazon", FilterCriteria{Platform: "Amazon"}},
		{FilterState, "CA", FilterCriteria{State: "CA"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			var c FilterCriteria
			got, err := c.SetField(tt.key, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, c.IsEmpty(), "receiver must not change")
		})
	}
}

func TestSetFieldRejectsUnknownKey(t *testing.T) {
	c := FilterCriteria{Category: "Toys"}

	got, err := c.SetField("colour", "red")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "colour", verr.Key)
	assert.Equal(t, c, got)
}

func TestSerializeOmitsEmptyValues(t *testing.T) {
	c := FilterCriteria{Category: "Toys", State: "CA"}

	params := c.Serialize()

	assert.Equal(t, QueryParams{"category": "Toys", "state": "CA"}, params)
	assert.Equal(t, "category=Toys&state=CA", params.Encode())
	assert.Empty(t, ClearCriteria().Serialize())
}

func TestSerializeKeepsDateRangeVerbatim(t *testing.T) {
	// Reversed on purpose: the client must not reorder the two dates.
	c := FilterCriteria{DateRange: "2024-02-01,2024-01-01"}

	params := c.Serialize()

	assert.Equal(t, "2024-02-01,2024-01-01", params["date_range"])
}

func TestSerializeRoundTrip(t *testing.T) {
	cases := []FilterCriteria{
		{},
		{Category: "Toys"},
		{DateRange: "2024-01-01,2024-01-31", Platform: "Meesho"},
		{DateRange: "a,b", Category: "c", DeliveryStatus: "In Transit", Platform: "e", State: "Tamil Nadu - 600001"},
	}

	for _, c := range cases {
		t.Run(c.String(), func(t *testing.T) {
			first := c.Serialize()

			reparsed, err := ParseQueryParams(first.Values())
			require.NoError(t, err)
			second := reparsed.Serialize()

			assert.Equal(t, first, second)
			assert.Equal(t, c, reparsed)
			for _, k := range FilterKeys {
				v, _ := c.Get(k)
				_, present := first[string(k)]
				assert.Equal(t, v != "", present, "key %s", k)
			}
		})
	}
}

func TestParseQueryParamsRejectsUnknownKey(t *testing.T) {
	_, err := ParseQueryParams(map[string][]string{"sort": {"asc"}})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestClearCriteriaEqualsInitial(t *testing.T) {
	var initial FilterCriteria
	c, _ := initial.SetField(FilterPlatform, "Amazon")

	assert.NotEqual(t, initial, c)
	assert.Equal(t, initial, ClearCriteria())
	assert.True(t, ClearCriteria().IsEmpty())
}

func TestParseFilterKey(t *testing.T) {
	k, err := ParseFilterKey("delivery_status")
	require.NoError(t, err)
	assert.Equal(t, FilterDeliveryStatus, k)

	_, err = ParseFilterKey("Delivery_Status")
	assert.Error(t, err)
}
