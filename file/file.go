package file

import (
	"path/filepath"
	"strconv"

	"github.com/jsphweid/markovmidi/util"
	"github.com/pkg/errors"
)

type MelodyNum = int
type MelodyNumToPath = map[MelodyNum]string

// CreateMelodyNumMap numbers melodies from 1 in the order given.
func CreateMelodyNumMap(paths []string) MelodyNumToPath {
	res := make(MelodyNumToPath)
	for i, v := range paths {
		res[i+1] = v
	}
	return res
}

func ListMelodies(dir string) (MelodyNumToPath, error) {
	paths, err := util.GatherAllMidiPaths(dir, 0)
	if err != nil {
		return nil, err
	}
	return CreateMelodyNumMap(paths), nil
}

var ErrNoSuchMelody = errors.New("melody not available")

// Resolve accepts either a melody number from dir or a path to a midi file.
func Resolve(dir, arg string) (string, error) {
	num, err := strconv.Atoi(arg)
	if err != nil {
		if util.IsMidiPath(arg) {
			return filepath.Clean(arg), nil
		}
		return "", errors.Wrapf(ErrNoSuchMelody, "%q is neither a melody number nor a midi file", arg)
	}
	melodies, err := ListMelodies(dir)
	if err != nil {
		return "", err
	}
	path, ok := melodies[num]
	if !ok {
		return "", errors.Wrapf(ErrNoSuchMelody, "no melody %d in %v", num, dir)
	}
	return path, nil
}
