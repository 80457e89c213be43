package main

import "fmt"

// maxArgs bounds one command line; the last slot stays reserved, so a
// line carries at most maxArgs-1 tokens.
const maxArgs = 16

func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// tokenize splits one console line into whitespace-separated tokens.
// Runs of separators collapse; a blank line is zero tokens, not an
// error. Exceeding maxArgs-1 tokens is an error rather than a
// truncation, so a mangled line never dispatches half a command.
func tokenize(line string) ([]string, error) {
	var argv []string
	i := 0
	for {
		for i < len(line) && isSeparator(line[i]) {
			i++
		}
		if i == len(line) {
			break
		}
		if len(argv) == maxArgs-1 {
			return nil, fmt.Errorf("too many arguments (max %d)", maxArgs)
		}
		start := i
		for i < len(line) && !isSeparator(line[i]) {
			i++
		}
		argv = append(argv, line[start:i])
	}
	return argv, nil
}
