// Package input reads flag values from stdin and files (@file syntax).
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ExpandValue expands one flag value. "-" reads lines from stdin, "@path"
// reads lines from a file, anything else is returned as is.
func ExpandValue(raw string, stdin io.Reader) ([]string, error) {
	switch {
	case raw == "-":
		return ReadLinesFromReader(stdin)
	case strings.HasPrefix(raw, "@"):
		path := strings.TrimPrefix(raw, "@")
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		defer file.Close()
		return ReadLinesFromReader(file)
	default:
		return []string{raw}, nil
	}
}

// ReadLinesFromReader reads non-empty lines, skipping # comments.
func ReadLinesFromReader(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
