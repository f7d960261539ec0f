package compilation

import (
	"os"
	"path/filepath"

	"github.com/crytic/hypcheck/compilation/types"
	"github.com/pkg/errors"
)

// DefaultFixturesDirectory is the directory the reference DAO sources are read from, relative to the root of this
// repository where they are shipped.
const DefaultFixturesDirectory = "determinism/testdata/DAO"

// DefaultFixtureFiles lists the reference DAO source files, in the order they are read.
var DefaultFixtureFiles = []string{"DAO.hyp", "Token.hyp", "TokenCreation.hyp", "ManagedAccount.hyp"}

// ReadSources reads each of the provided files from directory, keyed by file name. The file name, not the joined
// path, becomes the source unit name so that requests are independent of where the fixtures live.
func ReadSources(directory string, files []string) (map[string]types.SourceInput, error) {
	if len(files) == 0 {
		return nil, errors.Errorf("no source files were provided")
	}

	sources := make(map[string]types.SourceInput, len(files))
	for _, file := range files {
		if _, exists := sources[file]; exists {
			return nil, errors.Errorf("source file '%s' is listed more than once", file)
		}

		content, err := os.ReadFile(filepath.Join(directory, file))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		sources[file] = types.SourceInput{Content: string(content)}
	}
	return sources, nil
}
