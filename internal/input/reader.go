package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ErrNoInput is returned when neither a file nor piped stdin is available.
var ErrNoInput = errors.New("no input provided: pass links as arguments, use --file, or pipe them to stdin")

// maxLineBytes bounds a single input line; data: links can be long.
const maxLineBytes = 1 << 20

// ReadLinks returns whitespace-separated links from r in first-seen order,
// without duplicates. Blank lines and lines starting with '#' are skipped.
func ReadLinks(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, l := range strings.Fields(line) {
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read links: %w", err)
	}
	return out, nil
}

// ReadLinksFromFileOrStdin reads from filename, or from stdin when filename
// is empty. An interactive stdin is refused rather than blocking.
func ReadLinksFromFileOrStdin(filename string, stdin *os.File) ([]string, error) {
	if filename == "" {
		if stdin == nil || isatty.IsTerminal(stdin.Fd()) || isatty.IsCygwinTerminal(stdin.Fd()) {
			return nil, ErrNoInput
		}
		return ReadLinks(stdin)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()
	return ReadLinks(f)
}
