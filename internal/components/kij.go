package components

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KijEntry is one named pair interaction in a user YAML file.
type KijEntry struct {
	I     string  `yaml:"i"`
	J     string  `yaml:"j"`
	Value float64 `yaml:"value"`
}

type kijSchema struct {
	Kij []KijEntry `yaml:"kij"`
}

// LoadKij reads a pair-interaction file and expands it into a full
// symmetric matrix over the given species order. Pairs absent from the
// file default to zero; entries naming species outside the list are an
// error so typos never pass silently.
func LoadKij(path string, names []string) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f kijSchema
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("components: %s: %w", path, err)
	}
	return ExpandKij(f.Kij, names)
}

// ExpandKij builds the symmetric matrix for entries over the species
// order names.
func ExpandKij(entries []KijEntry, names []string) ([][]float64, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	m := make([][]float64, len(names))
	for i := range m {
		m[i] = make([]float64, len(names))
	}
	for _, e := range entries {
		i, ok := index[e.I]
		if !ok {
			return nil, fmt.Errorf("components: kij names unknown species %q", e.I)
		}
		j, ok := index[e.J]
		if !ok {
			return nil, fmt.Errorf("components: kij names unknown species %q", e.J)
		}
		if i == j {
			return nil, fmt.Errorf("components: kij for %q against itself", e.I)
		}
		m[i][j] = e.Value
		m[j][i] = e.Value
	}
	return m, nil
}
