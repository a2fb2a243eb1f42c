package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Normalize_MixedInput_ShouldCleanAndDedupe(t *testing.T) {
	raw := []any{"  React ", "react", "REACT", 42, nil, "Node.js", "  ", "Machine   Learning", "machine learning"}

	assert.Equal(t, []string{"react", "node.js", "machine learning"}, Normalize(raw))
}

func Test_Normalize_UnexpectedShapes_ShouldReturnEmpty(t *testing.T) {
	for _, raw := range []any{nil, "react, go", 12, map[string]any{"skills": []any{"go"}}} {
		result := Normalize(raw)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	}
}

func Test_Normalize_StringSlice_ShouldPreserveFirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{"go", "sql", "c++"}, Normalize([]string{"Go", "SQL", "go", "C++", "sql"}))
}

func Test_Normalize_Idempotent(t *testing.T) {
	inputs := [][]string{
		{" A  b ", "a b", "C"},
		{},
		{"TypeScript", "typescript ", "\tDocker\n"},
	}

	for _, input := range inputs {
		once := NormalizeStrings(input)
		assert.Equal(t, once, NormalizeStrings(once))
	}
}

func Test_NormalizeOne_TabsAndNewlines_ShouldCollapse(t *testing.T) {
	assert.Equal(t, "ci cd", NormalizeOne("\tCI \n\n CD "))
}
