package cmd

import (
	"github.com/jsphweid/markovmidi/player"
	"github.com/jsphweid/markovmidi/sample"
	"github.com/spf13/cobra"
)

var (
	exportSteps int
	exportOut   string
)

func init() {
	flags := exportCmd.Flags()
	flags.IntVar(&exportSteps, "steps", 64, "number of chords to generate")
	flags.StringVar(&exportOut, "out", "generated.mid", "midi file to write")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <melody>",
	Short: "Writes generated music to a midi file instead of playing it",
	Long:  `Writes generated music to a midi file instead of playing it`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(args[0])
	},
}

func export(arg string) error {
	m, err := loadMelody(arg)
	if err != nil {
		return err
	}

	cmds := m.Commands
	if m.Model != nil {
		src, err := player.SourceFor(m.Model, logger.WithPrefix("walker"))
		if err != nil {
			return err
		}
		cmds = sample.Take(src, newRand(), exportSteps)
	}
	if err := sample.Write(exportOut, cmds, cfg.Channel); err != nil {
		return err
	}
	logger.Info("exported", "out", exportOut, "commands", len(cmds))
	return nil
}
