package config

import (
	"os"
	"strconv"

	"github.com/jsphweid/markovmidi/constants"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Original selects replaying the melody as recorded instead of a model.
const Original = -1

type Config struct {
	MelodyDir string `yaml:"melody_dir"`
	Order     string `yaml:"order"`
	Seed      int64  `yaml:"seed"`
	MaxVoices int64  `yaml:"max_voices"`
	Quantize  bool   `yaml:"quantize"`
	LogLevel  string `yaml:"log_level"`

	Device     string `yaml:"device"`
	Port       string `yaml:"port"`
	Channel    uint8  `yaml:"channel"`
	SoundFont  string `yaml:"soundfont"`
	Wav        string `yaml:"wav"`
	SampleRate int    `yaml:"sample_rate"`

	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

func Default() Config {
	return Config{
		MelodyDir:  constants.GetMelodyDir(),
		Order:      "1",
		LogLevel:   "info",
		Device:     "port",
		Port:       constants.DefaultPortName,
		SoundFont:  constants.GetSoundFont(),
		Wav:        "markovmidi.wav",
		SampleRate: constants.DefaultSampleRate,
		Addr:       constants.DefaultAddr,
	}
}

// Load reads a yaml config over the defaults. A missing file just yields the
// defaults.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, errors.Wrapf(err, "could not read config %v", path)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "could not parse config %v", path)
	}
	return c, nil
}

var ErrBadOrder = errors.New("order must be original or a number")

// ParseOrder turns "original", "org" or a markov order into a number, with
// Original standing for the replay mode.
func ParseOrder(s string) (int, error) {
	switch s {
	case "original", "org":
		return Original, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(ErrBadOrder, "got %q", s)
	}
	return n, nil
}
