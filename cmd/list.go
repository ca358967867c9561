package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jsphweid/markovmidi/file"
	"github.com/jsphweid/markovmidi/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists available melodies",
	Long:  `Lists the midi files in the melody directory, numbered for the other commands.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		melodies, err := file.ListMelodies(cfg.MelodyDir)
		if err != nil {
			return err
		}
		if len(melodies) == 0 {
			fmt.Printf("No melodies in %v\n", cfg.MelodyDir)
			return nil
		}
		fmt.Println("Available melodies:")
		for _, num := range util.GetSortedKeys(melodies) {
			fmt.Printf("(%d) %v\n", num, filepath.Base(melodies[num]))
		}
		return nil
	},
}
