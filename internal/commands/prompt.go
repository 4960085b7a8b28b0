package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errNoInput is returned when a prompt hits end of input.
var errNoInput = errors.New("no input")

// prompter asks questions on errOut and reads answers line by line.
// One prompter must serve all prompts of a run, since it buffers input.
type prompter struct {
	in     *bufio.Reader
	errOut io.Writer
}

func newPrompter(in io.Reader, errOut io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), errOut: errOut}
}

// Line prints label and returns the trimmed answer.
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.errOut, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err == io.EOF && line == "" {
		return "", errNoInput
	}
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only y or yes count as yes; EOF is no.
// It satisfies tasklist.ConfirmFunc.
func (p *prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.errOut, "%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// need returns value if set, otherwise prompts for it. Empty answers are
// rejected with "<name> required".
func (p *prompter) need(value, label, name string) (string, error) {
	if value != "" {
		return value, nil
	}
	v, err := p.Line(label)
	if err != nil && !errors.Is(err, errNoInput) {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s required", name)
	}
	return v, nil
}
