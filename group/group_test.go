package group

import (
	"testing"
	"time"

	"github.com/jsphweid/markovmidi/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func on(note uint8, delta time.Duration) model.RawCommand {
	return model.RawCommand{Direction: model.On, Note: note, Velocity: 100, Delta: delta}
}

func off(note uint8, delta time.Duration) model.RawCommand {
	return model.RawCommand{Direction: model.Off, Note: note, Velocity: 100, Delta: delta}
}

func TestGroupsSimultaneousCommands(t *testing.T) {
	groups := Group([]model.RawCommand{
		on(64, 0), on(60, 0),
		off(60, time.Second), off(64, 0),
	})

	assert := assert.New(t)
	assert.Len(groups, 2)
	assert.Equal(time.Duration(0), groups[0].Delta)
	assert.Equal([]model.Command{
		{Direction: model.On, Note: 60, Velocity: 100},
		{Direction: model.On, Note: 64, Velocity: 100},
	}, groups[0].Commands)
	assert.Equal(time.Second, groups[1].Delta)
	assert.Equal(model.Off, groups[1].Direction())
	assert.Len(groups[1].Commands, 2)
}

func TestSplitsMixedGroupOffFirst(t *testing.T) {
	groups := Group([]model.RawCommand{
		on(60, 0),
		on(62, 500*time.Millisecond), off(60, 0),
		off(62, 500*time.Millisecond),
	})

	assert := assert.New(t)
	assert.Len(groups, 4)
	assert.Equal(model.Off, groups[1].Direction())
	assert.Equal(500*time.Millisecond, groups[1].Delta)
	assert.Equal(uint8(60), groups[1].Commands[0].Note)
	assert.True(groups[2].IsOn())
	assert.Equal(time.Duration(0), groups[2].Delta)
	assert.Equal(uint8(62), groups[2].Commands[0].Note)
}

func TestEmitsTrailingGroupAndSkipsEmptyLead(t *testing.T) {
	groups := Group([]model.RawCommand{
		on(60, 2*time.Second),
		off(60, time.Second),
	})

	assert := assert.New(t)
	assert.Len(groups, 2)
	assert.Equal(2*time.Second, groups[0].Delta)
	assert.Equal(time.Second, groups[1].Delta)
}

func TestEmptyStream(t *testing.T) {
	assert.Empty(t, Group(nil))
}

func genRawCommand() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.UInt8Range(0, 127),
		gen.UInt8Range(1, 127),
		gen.IntRange(0, 3),
	).Map(func(vals []interface{}) model.RawCommand {
		dir := model.Off
		if vals[0].(bool) {
			dir = model.On
		}
		return model.RawCommand{
			Direction: dir,
			Note:      vals[1].(uint8),
			Velocity:  vals[2].(uint8),
			Delta:     time.Duration(vals[3].(int)) * 250 * time.Millisecond,
		}
	})
}

func TestGroupProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("no group mixes note-ons and note-offs", prop.ForAll(
		func(cmds []model.RawCommand) bool {
			for _, g := range Group(cmds) {
				for _, c := range g.Commands {
					if c.Direction != g.Direction() {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(genRawCommand()),
	))

	properties.Property("every command survives grouping", prop.ForAll(
		func(cmds []model.RawCommand) bool {
			var n int
			for _, g := range Group(cmds) {
				n += len(g.Commands)
			}
			return n == len(cmds)
		},
		gen.SliceOf(genRawCommand()),
	))

	properties.Property("group deltas sum to the stream length", prop.ForAll(
		func(cmds []model.RawCommand) bool {
			var want, got time.Duration
			for _, c := range cmds {
				want += c.Delta
			}
			for _, g := range Group(cmds) {
				got += g.Delta
			}
			return want == got
		},
		gen.SliceOf(genRawCommand()),
	))

	properties.Property("commands are sorted by note", prop.ForAll(
		func(cmds []model.RawCommand) bool {
			for _, g := range Group(cmds) {
				for i := 1; i < len(g.Commands); i++ {
					if g.Commands[i-1].Note > g.Commands[i].Note {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(genRawCommand()),
	))

	properties.TestingRun(t)
}
