package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords_Array(t *testing.T) {
	input := `
	[
		{"name": "Jansen Elektra", "city": "Utrecht", "province": "Utrecht", "province_abbr": "UT"},
		{"name": "Amstel Stroom", "city": "Amsterdam", "region": "Noord-Holland", "region_abbr": "NH"}
	]`

	records, err := readRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Utrecht", records[0].Region)
	assert.Equal(t, "UT", records[0].RegionAbbr)
	assert.Equal(t, "NH", records[1].RegionAbbr)
}

func TestReadRecords_Lines(t *testing.T) {
	input := `{"name": "Jansen Elektra", "state": "Utrecht"}

{"name": "Amstel Stroom", "zip_code": "1011 AA"}
`
	records, err := readRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Utrecht", records[0].Region)
	assert.Equal(t, "1011 AA", records[1].PostalCode)
}

func TestReadRecords_Errors(t *testing.T) {
	_, err := readRecords(strings.NewReader(`{"name": "A"}` + "\n" + `{"name":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = readRecords(strings.NewReader(`[{"name": "A"},`))
	assert.Error(t, err)

	records, err := readRecords(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}
