package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseProfile_FlatArray_ShouldFillSkillsOnly(t *testing.T) {
	profile := ParseProfile([]byte(`["React", 3, "TypeScript"]`))

	assert.Equal(t, FlatList, profile.Kind)
	assert.Equal(t, []string{"React", "TypeScript"}, profile.Skills)
	assert.Empty(t, profile.Tools)
	assert.Empty(t, profile.DBs)
	assert.Empty(t, profile.Highlights)
}

func Test_ParseProfile_Object_ShouldCoerceBadFields(t *testing.T) {
	profile := ParseProfile([]byte(`{"skills":["go"],"tools":"docker","dbs":["postgres",1],"highlights":null,"years":3}`))

	assert.Equal(t, Structured, profile.Kind)
	assert.Equal(t, []string{"go"}, profile.Skills)
	assert.Equal(t, []string{}, profile.Tools)
	assert.Equal(t, []string{"postgres"}, profile.DBs)
	assert.Equal(t, []string{}, profile.Highlights)
	assert.Equal(t, []string{"go", "postgres"}, profile.CandidateSkills())
}

func Test_ParseProfile_Garbage_ShouldReturnEmpty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(`not json`), []byte(`"react"`), []byte(`42`)} {
		profile := ParseProfile(data)
		assert.Equal(t, emptyProfile(), profile)
		assert.NotNil(t, profile.Skills)
	}
}
