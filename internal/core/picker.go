package core

import "math/rand/v2"

// Picker chooses an index in [0, n). Tests inject a seeded *rand.Rand.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// DefaultPicker draws from the process-wide source, which is safe for concurrent use.
var DefaultPicker Picker = globalPicker{}
