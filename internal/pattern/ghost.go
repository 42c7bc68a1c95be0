package pattern

// NotFound is the response a correct server sends for a GET, SET, or DEL of
// a key it does not hold.
const NotFound = "not found\n"

// ghostStore simulates the target server's key/value state at generation
// time, so predicted responses can be computed without ever talking to a
// real server. It is never shared across patterns: each ExecPattern gets a
// fresh one.
type ghostStore map[string]string

// apply runs cmd against the store and returns the response a correct
// server would send, including the terminating newline. The store is
// mutated exactly as the real server's would be.
func (g ghostStore) apply(cmd Command) string {
	switch cmd.Kind {
	case Get:
		if v, ok := g[cmd.Key]; ok {
			return v + "\n"
		}
		return NotFound
	case Set:
		prev, ok := g[cmd.Key]
		g[cmd.Key] = cmd.Value
		if ok {
			return prev + "\n"
		}
		return NotFound
	case Del:
		prev, ok := g[cmd.Key]
		delete(g, cmd.Key)
		if ok {
			return prev + "\n"
		}
		return NotFound
	default:
		return NotFound
	}
}

// Predict simulates commands against a fresh ghost store and returns one
// predicted response per command, in order.
func Predict(commands []Command) []string {
	store := make(ghostStore, len(commands))
	predictions := make([]string, len(commands))
	for i, c := range commands {
		predictions[i] = store.apply(c)
	}
	return predictions
}
