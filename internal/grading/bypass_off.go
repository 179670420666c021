//go:build !devbypass

package grading

// BypassCompiledIn reports whether this binary was built with the devbypass
// tag. Release builds never enable the double-submit bypass.
const BypassCompiledIn = false
