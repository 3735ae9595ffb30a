//go:build !vectordebug

package vector

// debug reports whether precondition checks are compiled in.
const debug = false

func precondition(bool, string) {}
