//go:build vectordebug

package vector

const debug = true

// precondition panics with msg when cond is false. Only compiled in with the
// vectordebug build tag; release builds leave preconditions unchecked.
func precondition(cond bool, msg string) {
	if !cond {
		panic("vector: " + msg)
	}
}
