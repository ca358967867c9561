package model

import "time"

type Note struct {
	Key      uint8
	Velocity uint8
}

type Notes = []Note

type Chord struct {
	Duration time.Duration
	Notes    Notes

	// time since the onset of the previous chord's note-on group
	Wait time.Duration
}

// Voicing is a comparable set of notes, each with the velocity it was struck
// with. The zero value is the empty set.
type Voicing struct {
	mask     [2]uint64
	velocity [128]uint8
}

func NewVoicing(notes Notes) Voicing {
	var v Voicing
	for _, n := range notes {
		v.Add(n)
	}
	return v
}

// Add inserts n, replacing the velocity if the key is already present.
func (v *Voicing) Add(n Note) {
	k := n.Key & 0x7f
	v.mask[k/64] |= 1 << (k % 64)
	v.velocity[k] = n.Velocity
}

func (v Voicing) Has(key uint8) bool {
	k := key & 0x7f
	return v.mask[k/64]&(1<<(k%64)) != 0
}

func (v Voicing) Len() int {
	var n int
	for _, m := range v.mask {
		for ; m != 0; m &= m - 1 {
			n++
		}
	}
	return n
}

// Notes returns the notes in ascending key order.
func (v Voicing) Notes() Notes {
	res := make(Notes, 0, v.Len())
	for k := 0; k < 128; k++ {
		if v.Has(uint8(k)) {
			res = append(res, Note{Key: uint8(k), Velocity: v.velocity[k]})
		}
	}
	return res
}
