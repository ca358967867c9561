package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markovmidi.yaml")
	data := []byte("order: \"2\"\nseed: 42\nmax_voices: 16\ndevice: synth\nchannel: 3\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("2", c.Order)
	assert.Equal(int64(42), c.Seed)
	assert.Equal(int64(16), c.MaxVoices)
	assert.Equal("synth", c.Device)
	assert.Equal(uint8(3), c.Channel)
	assert.Equal(Default().Addr, c.Addr)
}

func TestLoadRejectsBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("order: [1"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	cases := map[string]int{"original": Original, "org": Original, "0": 0, "1": 1, "3": 3}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := ParseOrder(in)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, in := range []string{"", "-1", "two"} {
		_, err := ParseOrder(in)
		assert.True(t, errors.Is(err, ErrBadOrder), in)
	}
}
