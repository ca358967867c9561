package group

import (
	"sort"

	"github.com/jsphweid/markovmidi/model"
)

// Group folds a flat command stream into atomic groups. Commands with a zero
// delta join the group that is currently open; a positive delta closes it.
// Groups that mix note-ons and note-offs are then split so that the offs come
// first, and every group ends up sorted by note.
func Group(commands []model.RawCommand) []model.AtomicGroup {
	var grouped []model.AtomicGroup
	var curr model.AtomicGroup
	for _, c := range commands {
		cmd := model.Command{Direction: c.Direction, Note: c.Note, Velocity: c.Velocity}
		if c.Delta == 0 {
			curr.Commands = append(curr.Commands, cmd)
			continue
		}
		if len(curr.Commands) > 0 {
			grouped = append(grouped, curr)
		}
		curr = model.AtomicGroup{Delta: c.Delta, Commands: []model.Command{cmd}}
	}
	if len(curr.Commands) > 0 {
		grouped = append(grouped, curr)
	}

	var res []model.AtomicGroup
	for _, g := range grouped {
		res = append(res, split(g)...)
	}
	for _, g := range res {
		sortCommands(g.Commands)
	}
	return res
}

// split separates a mixed group into an off group carrying the original delta
// followed by an on group at the same instant.
func split(g model.AtomicGroup) []model.AtomicGroup {
	var hasOn, hasOff bool
	for _, c := range g.Commands {
		if c.Direction == model.On {
			hasOn = true
		} else {
			hasOff = true
		}
	}
	if !hasOn || !hasOff {
		return []model.AtomicGroup{g}
	}

	off := model.AtomicGroup{Delta: g.Delta}
	on := model.AtomicGroup{Delta: 0}
	for _, c := range g.Commands {
		if c.Direction == model.On {
			on.Commands = append(on.Commands, c)
		} else {
			off.Commands = append(off.Commands, c)
		}
	}
	return []model.AtomicGroup{off, on}
}

func sortCommands(cmds []model.Command) {
	sort.SliceStable(cmds, func(i, j int) bool {
		if cmds[i].Note != cmds[j].Note {
			return cmds[i].Note < cmds[j].Note
		}
		return cmds[i].Velocity < cmds[j].Velocity
	})
}
