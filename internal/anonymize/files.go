package anonymize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTerms reads a YAML list of strings from path. Both the dictionary
// and allowlist files use this format. A missing path returns nil without
// error; both files are optional.
func LoadTerms(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading term file %s: %w", path, err)
	}

	var terms []string
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("parsing term file %s: %w", path, err)
	}
	return terms, nil
}
