package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshalString(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`"Dubai Marina"`), &r))
	assert.Equal(t, "Dubai Marina", r.Name)
	assert.Empty(t, r.ID)
}

func TestRefUnmarshalObject(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"n-1","name":"Dubai Marina"}`), &r))
	assert.Equal(t, "n-1", r.ID)
	assert.Equal(t, "Dubai Marina", r.Name)
}

func TestRefUnmarshalObjectFallbacks(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`{"_ref":"d-9","title":"Emaar"}`), &r))
	assert.Equal(t, "d-9", r.ID)
	assert.Equal(t, "Emaar", r.Name)
}

func TestRefUnmarshalRejectsOtherShapes(t *testing.T) {
	var r Ref
	assert.Error(t, json.Unmarshal([]byte(`42`), &r))
}

func TestStringListUnmarshalMixedEntries(t *testing.T) {
	var sl StringList
	raw := `["gym", {"name":"private-pool"}, "", {"title":"concierge"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &sl))
	assert.Equal(t, StringList{"gym", "private-pool", "concierge"}, sl)
}

func TestStringListValueScanRoundTrip(t *testing.T) {
	in := StringList{"gym", "sea-view"}

	v, err := in.Value()
	require.NoError(t, err)

	var out StringList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestStringListScanNil(t *testing.T) {
	var sl StringList
	require.NoError(t, sl.Scan(nil))
	assert.Nil(t, sl)
}

func TestStringListEmptyValue(t *testing.T) {
	var sl StringList
	v, err := sl.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestListingUnmarshalPolymorphicFields(t *testing.T) {
	raw := `{
		"slug": "marina-heights-2204",
		"title": "Marina Heights",
		"neighborhood": "Dubai Marina",
		"developer": {"_id": "d-1", "name": "Emaar"},
		"amenities": ["gym", {"name": "concierge"}],
		"price": 2400000
	}`

	var l Listing
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, "Dubai Marina", l.Neighborhood.Name)
	assert.Equal(t, "d-1", l.Developer.ID)
	assert.Equal(t, StringList{"gym", "concierge"}, l.Amenities)
	require.NotNil(t, l.Price)
	assert.Equal(t, 2400000.0, *l.Price)
}

func TestMarkAsRemoved(t *testing.T) {
	l := Listing{Status: ListingStatusActive}
	l.MarkAsRemoved()
	assert.Equal(t, ListingStatusRemoved, l.Status)
	require.NotNil(t, l.RemovedAt)
	assert.False(t, l.IsActive())
}
