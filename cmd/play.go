package cmd

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/jsphweid/markovmidi/config"
	"github.com/jsphweid/markovmidi/file"
	"github.com/jsphweid/markovmidi/melody"
	"github.com/jsphweid/markovmidi/player"
	"github.com/jsphweid/markovmidi/sound"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var playFor time.Duration

func init() {
	flags := playCmd.Flags()
	flags.DurationVar(&playFor, "for", 0, "stop after this long, 0 plays until interrupted")
	flags.String("device", cfg.Device, "port, synth or log")
	flags.String("port", cfg.Port, "midi output port, created as a virtual port when missing")
	flags.Uint8("channel", cfg.Channel, "midi channel")
	flags.String("soundfont", cfg.SoundFont, "SoundFont used by the synth device")
	flags.String("wav", cfg.Wav, "file the synth device records to")
	flags.Int64("max-voices", 0, "most chords sounding at once, 0 for no limit")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <melody>",
	Short: "Plays music generated from a melody",
	Long: `Plays music generated from a melody, given by its number in list or by path.
With --order original the melody is replayed as it is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("device") {
			cfg.Device, _ = flags.GetString("device")
		}
		if flags.Changed("port") {
			cfg.Port, _ = flags.GetString("port")
		}
		if flags.Changed("channel") {
			cfg.Channel, _ = flags.GetUint8("channel")
		}
		if flags.Changed("soundfont") {
			cfg.SoundFont, _ = flags.GetString("soundfont")
		}
		if flags.Changed("wav") {
			cfg.Wav, _ = flags.GetString("wav")
		}
		if flags.Changed("max-voices") {
			cfg.MaxVoices, _ = flags.GetInt64("max-voices")
		}
		return play(cmd.Context(), args[0])
	},
}

func loadMelody(arg string) (*melody.Melody, error) {
	order, err := config.ParseOrder(cfg.Order)
	if err != nil {
		return nil, err
	}
	path, err := file.Resolve(cfg.MelodyDir, arg)
	if err != nil {
		return nil, err
	}
	m, err := melody.Load(path, order, cfg.Quantize)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded melody",
		"path", path,
		"order", m.OrderName(),
		"commands", len(m.Commands),
		"groups", len(m.Groups),
		"chords", len(m.Chords),
		"id", m.Id,
	)
	return m, nil
}

type closer func() error

func openDevice() (sound.Device, closer, error) {
	switch cfg.Device {
	case "port":
		p, err := sound.OpenPort(cfg.Port, cfg.Channel, logger.WithPrefix("port"))
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case "synth":
		sf, err := sound.LoadSoundFont(cfg.SoundFont)
		if err != nil {
			return nil, nil, err
		}
		s, err := sound.NewSynth(sf, cfg.Wav, cfg.SampleRate, cfg.Channel)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("recording", "wav", cfg.Wav, "sample_rate", cfg.SampleRate)
		return s, s.Close, nil
	case "log":
		return sound.Log{Logger: logger.WithPrefix("device")}, func() error { return nil }, nil
	default:
		return nil, nil, errors.Errorf("unknown device %q", cfg.Device)
	}
}

func newRand() *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("random", "seed", seed)
	return rand.New(rand.NewSource(seed))
}

func play(ctx context.Context, arg string) error {
	m, err := loadMelody(arg)
	if err != nil {
		return err
	}

	device, closeDevice, err := openDevice()
	if err != nil {
		return err
	}
	if logger.GetLevel() <= charmlog.DebugLevel && cfg.Device != "log" {
		device = sound.Tee(device, sound.Log{Logger: logger.WithPrefix("device")})
	}
	defer func() {
		if err := closeDevice(); err != nil {
			logger.Error("closing device", "err", err)
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if playFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, playFor)
		defer cancel()
	}
	ctx = charmlog.WithContext(ctx, logger.WithPrefix("player"))

	s := player.New(device, player.Options{Rand: newRand(), MaxVoices: cfg.MaxVoices})
	if m.Model == nil {
		return s.PlayOriginal(ctx, m.Commands)
	}

	stats := m.Model.Stats()
	logger.Info("model", "keys", stats.Keys, "edges", stats.Edges, "start", stats.Start)
	src, err := player.SourceFor(m.Model, logger.WithPrefix("walker"))
	if err != nil {
		return err
	}
	return s.Run(ctx, src)
}
