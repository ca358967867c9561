package cmd

import (
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/jsphweid/markovmidi/config"
	"github.com/jsphweid/markovmidi/constants"
	"github.com/spf13/cobra"
)

var (
	cfg        = config.Default()
	configPath string
	logger     = charmlog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "markovmidi",
	Short: "Markov chain music from midi files",
	Long: `Reads a midi melody, turns it into a sequence of chords and keeps playing
new music sampled from a markov chain over those chords.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", constants.GetConfigPath(), "yaml config file")
	flags.String("melody-dir", cfg.MelodyDir, "directory holding the melodies")
	flags.StringP("order", "o", cfg.Order, "original, or the markov order (0, 1, 2, 3...)")
	flags.Int64("seed", 0, "random seed, 0 picks one from the clock")
	flags.Bool("quantize", false, "quantize the melody before building the model")
	flags.String("log-level", cfg.LogLevel, "debug, info, warn or error")
}

// loadConfig reads the config file, then lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("melody-dir") {
		c.MelodyDir, _ = flags.GetString("melody-dir")
	}
	if flags.Changed("order") {
		c.Order, _ = flags.GetString("order")
	}
	if flags.Changed("seed") {
		c.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("quantize") {
		c.Quantize, _ = flags.GetBool("quantize")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	cfg = c

	level, err := charmlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          cmd.Name(),
	})
	return nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
