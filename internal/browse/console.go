package browse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

type inputLine struct {
	text string
	err  error
}

// Console is the line-oriented terminal the interactive flows talk to.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan inputLine
}

// NewConsole reads commands from in and writes output to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, lines: make(chan inputLine)}
}

// readLines feeds input lines to Prompt one at a time. It stops after the
// first read error, which is delivered as the last line.
func (c *Console) readLines() {
	defer close(c.lines)
	for {
		line, err := c.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line != "" {
				c.lines <- inputLine{text: strings.TrimSpace(line)}
			}
			c.lines <- inputLine{err: err}
			return
		}
		c.lines <- inputLine{text: strings.TrimSpace(line)}
	}
}

// Out returns the output writer.
func (c *Console) Out() io.Writer { return c.out }

// Printf writes formatted output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Prompt prints label and returns the next input line with surrounding
// whitespace removed. It returns io.EOF once input is exhausted and
// ctx.Err() as soon as ctx is done, even while the read is still blocked.
func (c *Console) Prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)
	c.once.Do(func() { go c.readLines() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

// layout maps keys typed with a Russian keyboard layout to the Latin
// letters on the same physical keys, so commands work without switching.
var layout = strings.NewReplacer(
	"й", "q",
	"а", "f",
	"ь", "m",
	"н", "y",
	"т", "n",
)

// NormalizeCommand lower-cases s and maps Cyrillic layout keys to the
// Latin command letters.
func NormalizeCommand(s string) string {
	return layout.Replace(strings.ToLower(strings.TrimSpace(s)))
}
