package util

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func IsMidiPath(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi")
}

// GatherAllMidiPaths walks path for midi files, stopping at maxNum when it is
// not zero. Paths come back sorted.
func GatherAllMidiPaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsMidiPath(s) {
			res = append(res, s)
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, errors.Wrapf(err, "error walking %v", path)
	}
	sort.Strings(res)
	if maxNum > 0 && len(res) > maxNum {
		res = res[:maxNum]
	}
	return res, nil
}

func GetSortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Seconds[A constraints.Integer](d A) float64 {
	return float64(d) / 1e9
}
