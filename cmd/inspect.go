package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jsphweid/markovmidi/chord"
	"github.com/jsphweid/markovmidi/markov"
	"github.com/jsphweid/markovmidi/melody"
	"github.com/spf13/cobra"
)

var inspectEdges bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectEdges, "edges", false, "print every transition")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <melody>",
	Short: "Inspects the chords and model built from a melody",
	Long:  `Inspects the chords and model built from a melody`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMelody(args[0])
		if err != nil {
			return err
		}
		inspect(os.Stdout, m, inspectEdges)
		return nil
	},
}

func inspect(w io.Writer, m *melody.Melody, edges bool) {
	fmt.Fprintf(w, "melody: %v\n", m.Path)
	fmt.Fprintf(w, "commands: %v, groups: %v, chords: %v\n", len(m.Commands), len(m.Groups), len(m.Chords))
	for i, c := range m.Chords {
		fmt.Fprintf(w, "chord %d: %v\n", i, chord.CreateChordKey(c))
	}
	if m.Model == nil {
		return
	}

	stats := m.Model.Stats()
	fmt.Fprintf(w, "model: %v, keys: %v, edges: %v\n", m.OrderName(), stats.Keys, stats.Edges)
	fmt.Fprintf(w, "start: %v\n", stats.Start)
	if !edges {
		return
	}
	for _, line := range edgeLines(m.Model) {
		fmt.Fprintln(w, line)
	}
}

func edgeLines(model markov.Model) []string {
	var lines []string
	switch m := model.(type) {
	case *markov.Independent:
		for k := 0; k < m.Content.Len(); k++ {
			v, lo, hi := m.Content.Bucket(k)
			lines = append(lines, fmt.Sprintf("[%d, %d] %v", lo, hi, v))
		}
		for k := 0; k < m.Waits.Len(); k++ {
			v, lo, hi := m.Waits.Bucket(k)
			lines = append(lines, fmt.Sprintf("[%d, %d] wait %v", lo, hi, v))
		}
		// bucket order is meaningful
		return lines
	case *markov.FirstOrder:
		for k, vs := range m.Edges {
			lines = append(lines, fmt.Sprintf("%v -> %v", k, joinStates(vs)))
		}
	case *markov.HigherOrder:
		for k, vs := range m.Edges {
			next := make([]string, 0, len(vs))
			for _, v := range vs {
				next = append(next, m.Render(v))
			}
			lines = append(lines, fmt.Sprintf("%v -> %v", m.Render(k), strings.Join(next, ", ")))
		}
	}
	sort.Strings(lines)
	return lines
}

func joinStates(states []markov.State) string {
	parts := make([]string, 0, len(states))
	for _, s := range states {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}
