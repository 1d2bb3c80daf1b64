// Package stacktrace trims raw goroutine stacks down to this module's frames.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame
// that points into an internal package, in stack order.
func InternalPaths(stack []byte) []string {
	var out []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)

		file, _, _ := strings.Cut(line, " ")
		if !strings.Contains(file, ".go:") {
			continue
		}

		if idx := strings.Index(file, marker); idx != -1 {
			out = append(out, file[idx+1:])
		}
	}
	return out
}
