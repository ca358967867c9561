package chord

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsphweid/markovmidi/model"
)

// CreateChordKey renders a chord for logs and the http api, e.g.
// "1.5s|60:100-64:100|500ms".
func CreateChordKey(c model.Chord) string {
	var sb strings.Builder
	sb.WriteString(c.Duration.String())
	sb.WriteString("|")
	for i, n := range c.Notes {
		sb.WriteString(fmt.Sprintf("%v:%v", n.Key, n.Velocity))
		if i < len(c.Notes)-1 {
			sb.WriteString("-")
		}
	}
	sb.WriteString("|")
	sb.WriteString(c.Wait.String())
	return sb.String()
}

// Extract walks the grouped events and, for each note-on group, pairs its notes
// with the note-off groups that follow. Notes released by the same off group
// form one chord, so an on group whose notes are released at different times
// yields several chords. Notes that are never released are dropped.
func Extract(groups []model.AtomicGroup) []model.Chord {
	var chords []model.Chord

	var seenOn bool
	var sinceOn, wait time.Duration
	for i, g := range groups {
		if seenOn {
			sinceOn += g.Delta
		}
		if !g.IsOn() {
			continue
		}

		if seenOn {
			wait = sinceOn
		}
		seenOn = true
		sinceOn = 0

		chords = append(chords, resolve(groups, i, wait)...)
	}
	return chords
}

func resolve(groups []model.AtomicGroup, onIdx int, wait time.Duration) []model.Chord {
	var res []model.Chord

	velocity := make(map[uint8]uint8)
	unmatched := make(map[uint8]bool)
	for _, c := range groups[onIdx].Commands {
		velocity[c.Note] = c.Velocity
		unmatched[c.Note] = true
	}

	var duration time.Duration
	for j := onIdx + 1; j < len(groups) && len(unmatched) > 0; j++ {
		duration += groups[j].Delta
		if groups[j].IsOn() {
			continue
		}

		var found model.Voicing
		for _, c := range groups[j].Commands {
			if unmatched[c.Note] {
				delete(unmatched, c.Note)
				found.Add(model.Note{Key: c.Note, Velocity: velocity[c.Note]})
			}
		}
		if found.Len() > 0 {
			res = append(res, model.Chord{
				Duration: duration,
				Notes:    found.Notes(),
				Wait:     wait,
			})
		}
	}
	return res
}
