package compilation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/hypcheck/compilation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadSources verifies that fixtures are keyed by file name and read verbatim.
func TestReadSources(t *testing.T) {
	directory := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(directory, "A.hyp"), []byte("contract A {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "B.hyp"), []byte("import \"A.hyp\";\ncontract B is A {}\n"), 0644))

	sources, err := ReadSources(directory, []string{"A.hyp", "B.hyp"})
	require.NoError(t, err)
	assert.Equal(t, map[string]types.SourceInput{
		"A.hyp": {Content: "contract A {}\n"},
		"B.hyp": {Content: "import \"A.hyp\";\ncontract B is A {}\n"},
	}, sources)
}

// TestReadDefaultFixtures verifies that the default fixtures ship with the repository.
func TestReadDefaultFixtures(t *testing.T) {
	sources, err := ReadSources(filepath.Join("..", DefaultFixturesDirectory), DefaultFixtureFiles)
	require.NoError(t, err)
	assert.Len(t, sources, len(DefaultFixtureFiles))
	assert.Contains(t, sources["DAO.hyp"].Content, "contract DAO")
}

// TestReadSourcesErrors verifies the failure cases of ReadSources.
func TestReadSourcesErrors(t *testing.T) {
	directory := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(directory, "A.hyp"), []byte("contract A {}"), 0644))

	_, err := ReadSources(directory, nil)
	assert.Error(t, err)

	_, err = ReadSources(directory, []string{"A.hyp", "A.hyp"})
	assert.Error(t, err)

	_, err = ReadSources(directory, []string{"Missing.hyp"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
