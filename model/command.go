package model

import "time"

type Direction uint8

const (
	Off Direction = iota
	On
)

func (d Direction) String() string {
	if d == On {
		return "on"
	}
	return "off"
}

// RawCommand is a single note command as decoded from a melody. Delta is the
// time elapsed since the previous command.
type RawCommand struct {
	Direction Direction
	Note      uint8
	Velocity  uint8
	Delta     time.Duration
}

type Command struct {
	Direction Direction
	Note      uint8
	Velocity  uint8
}

// AtomicGroup holds commands that happen at the same instant. Delta is the gap
// from the previous group.
type AtomicGroup struct {
	Delta    time.Duration
	Commands []Command
}

// Direction of the group, judged by its first command. Groups coming out of the
// grouper never mix directions.
func (g AtomicGroup) Direction() Direction {
	if len(g.Commands) == 0 {
		return Off
	}
	return g.Commands[0].Direction
}

func (g AtomicGroup) IsOn() bool {
	return len(g.Commands) > 0 && g.Commands[0].Direction == On
}
