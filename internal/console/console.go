// Package console renders the assistant's text output.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const width = 70

const menu = `
 ____________________________________________________________________
|                      AVAILABLE COMMANDS                            |
|____________________________________________________________________|
|  'time'           - Get current time                               |
|  'date'           - Get today's date                               |
|  'add reminder'   - Set a new reminder                             |
|  'show reminders' - Display all saved reminders                    |
|  'weather'        - Get weather information                        |
|  'news'           - Get latest news headlines                      |
|  'joke'           - Hear a random joke                             |
|  'help'           - Display this command list                      |
|  %-16s - Put assistant in sleep mode                    |
|  'exit' or 'stop' - Quit the assistant                             |
|____________________________________________________________________|
`

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

// Console writes to out. It is safe for concurrent use since the reminder
// scheduler prints alongside the dispatch loop.
type Console struct {
	mu          sync.Mutex
	out         io.Writer
	sleepPhrase string
	clear       bool
}

// New returns a Console. When clear is set Header also wipes the terminal.
func New(out io.Writer, sleepPhrase string, clear bool) *Console {
	return &Console{out: out, sleepPhrase: sleepPhrase, clear: clear}
}

func (c *Console) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

func (c *Console) Header() {
	var b strings.Builder
	if c.clear {
		b.WriteString("\033[H\033[2J")
	}
	b.WriteString(strings.Repeat("=", width) + "\n")
	b.WriteString(bold("VOICE-ACTIVATED PERSONAL ASSISTANT") + "\n")
	b.WriteString(strings.Repeat("=", width) + "\n")
	c.write(b.String())
}

func (c *Console) Separator() {
	c.write(strings.Repeat("-", width))
}

func (c *Console) Status(text string) {
	c.write(cyan("Status: ") + text)
}

func (c *Console) Print(text string) {
	c.write(text)
}

func (c *Console) Banner(title string) {
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	c.write("\n" + strings.Repeat("=", width) + "\n" +
		strings.Repeat(" ", pad) + yellow(title) + "\n" +
		strings.Repeat("=", width))
}

func (c *Console) Menu() {
	c.write(fmt.Sprintf(menu, "'"+c.sleepPhrase+"'"))
}

// Said echoes an announcement before it is voiced.
func (c *Console) Said(text string) {
	c.write("\n" + green("Assistant: ") + text + "\n")
}

// Heard echoes a recognized utterance.
func (c *Console) Heard(text string) {
	c.write("You said: " + text)
}
