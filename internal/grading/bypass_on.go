//go:build devbypass

package grading

// BypassCompiledIn reports whether this binary was built with the devbypass
// tag, which allows DEV_GRADING_BYPASS to switch the bypass on.
const BypassCompiledIn = true
