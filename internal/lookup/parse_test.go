package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNames(t *testing.T) {
	input := "John,Smith\nJane Doe\nname\n"

	names := ParseNames(input)
	require.Len(t, names, 2)

	assert.Equal(t, "John", names[0].FirstName)
	assert.Equal(t, "Smith", names[0].LastName)
	assert.Equal(t, "John Smith", names[0].FullName)
	assert.Equal(t, "name-0", names[0].ID)

	assert.Equal(t, "Jane", names[1].FirstName)
	assert.Equal(t, "Doe", names[1].LastName)
	assert.Equal(t, "name-1", names[1].ID)
}

func TestParseNamesFormats(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
		wantFull  string
	}{
		{"comma separated", "John, Smith", "John", "Smith", "John Smith"},
		{"quoted csv fields", `"John","Smith"`, "John", "Smith", "John Smith"},
		{"single quoted fields", "'John','Smith'", "John", "Smith", "John Smith"},
		{"whitespace separated", "Jane Doe", "Jane", "Doe", "Jane Doe"},
		{"middle name joins last", "Jane Q Doe", "Jane", "Q Doe", "Jane Q Doe"},
		{"single token", "Madonna", "Madonna", "", "Madonna"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := ParseNames(tt.input)
			require.Len(t, names, 1)
			assert.Equal(t, tt.wantFirst, names[0].FirstName)
			assert.Equal(t, tt.wantLast, names[0].LastName)
			assert.Equal(t, tt.wantFull, names[0].FullName)
		})
	}
}

func TestParseNamesSkipsHeadersAndBlanks(t *testing.T) {
	input := "first_name,last_name\n\n  \nFull Name\nJohn,Smith\n,\n"

	names := ParseNames(input)
	require.Len(t, names, 1)
	assert.Equal(t, "John Smith", names[0].FullName)
}

func TestParseNamesEmptyInput(t *testing.T) {
	assert.Empty(t, ParseNames(""))
	assert.Empty(t, ParseNames("\n\n"))
}
