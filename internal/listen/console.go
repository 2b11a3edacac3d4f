package listen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// Console reads typed utterances. It blocks until a line is entered; Ctrl-D
// closes the input and Ctrl-C on an empty line does too.
type Console struct {
	rl *readline.Instance
}

func NewConsole(prompt string) (*Console, error) {
	cfg := &readline.Config{
		Prompt:            prompt,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		UniqueEditLine:    true,
		Stdin:             readline.NewCancelableStdin(os.Stdin),
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".murmur-history")
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Console{rl: rl}, nil
}

func (c *Console) Close() error {
	return c.rl.Close()
}

func (c *Console) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := c.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		if line == "" {
			return "", io.EOF
		}
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}
