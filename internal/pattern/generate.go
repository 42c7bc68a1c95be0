package pattern

import (
	"math/rand"
)

// asciiChars is the 52-element [A-Za-z] alphabet that keys and values are
// drawn from, mirroring the original generator's ASCII_CHARS table.
const asciiChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomString returns a string of length n drawn uniformly from
// [A-Za-z], using rng. Passing a *rand.Rand rather than the package-level
// source keeps generation reproducible and free of global-lock contention
// when many patterns are generated concurrently.
func RandomString(rng *rand.Rand, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = asciiChars[rng.Intn(len(asciiChars))]
	}
	return string(buf)
}

// Generate walks t left to right, producing one Command per template
// entry. It tracks the most recently generated SET command within this
// pattern: a GET or DEL that follows a SET reuses that SET's key, modelling
// realistic hot-key access. A GET or DEL with no preceding SET gets a fresh
// random key.
func Generate(rng *rand.Rand, t Template, keyLen, valueLen int) []Command {
	commands := make([]Command, len(t.Kinds))
	var currentSetKey string
	haveSet := false

	for i, k := range t.Kinds {
		switch k {
		case Set:
			key := RandomString(rng, keyLen)
			value := RandomString(rng, valueLen)
			commands[i] = Command{Kind: Set, Key: key, Value: value}
			currentSetKey = key
			haveSet = true
		case Get:
			if haveSet {
				commands[i] = Command{Kind: Get, Key: currentSetKey}
			} else {
				commands[i] = Command{Kind: Get, Key: RandomString(rng, keyLen)}
			}
		case Del:
			if haveSet {
				commands[i] = Command{Kind: Del, Key: currentSetKey}
			} else {
				commands[i] = Command{Kind: Del, Key: RandomString(rng, keyLen)}
			}
		}
	}
	return commands
}
