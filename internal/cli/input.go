// Package cli runs the interactive chat loop over a text engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordgraph/internal/utils"
	"github.com/bastiangx/wordgraph/pkg/config"
	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

const (
	exitCommand = "exit"
	prompt      = "You: "
)

type styles struct {
	banner lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	rule   lipgloss.Style
}

func newStyles(out io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(out)
	if !color {
		plain := r.NewStyle()
		return styles{banner: plain, label: plain, value: plain, rule: plain}
	}
	return styles{
		banner: r.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
		label: r.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		value: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
		rule: r.NewStyle().Faint(true),
	}
}

// InputHandler reads sentences line by line, feeds them to the engine and
// prints what it learned about the last word.
type InputHandler struct {
	engine      engine.TextEngine
	in          io.Reader
	out         io.Writer
	placeholder string
	interactive bool
	styles      styles
	lines       int
}

// NewInputHandler creates a chat loop reading in and writing out. The prompt
// is only shown when in is a terminal.
func NewInputHandler(eng engine.TextEngine, in io.Reader, out io.Writer, cfg config.CliConfig) *InputHandler {
	placeholder := cfg.Placeholder
	if placeholder == "" {
		placeholder = "None"
	}
	return &InputHandler{
		engine:      eng,
		in:          in,
		out:         out,
		placeholder: placeholder,
		interactive: isTerminal(in),
		styles:      newStyles(out, cfg.Color),
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start runs the loop until the input ends or the user types exit.
func (h *InputHandler) Start() error {
	rule := h.styles.rule.Render(strings.Repeat("=", 48))
	fmt.Fprintln(h.out, rule)
	fmt.Fprintln(h.out, h.styles.banner.Render("    wordgraph: type a sentence, or exit to quit"))
	fmt.Fprintln(h.out, rule)
	fmt.Fprintln(h.out)

	scanner := bufio.NewScanner(h.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if h.interactive {
			fmt.Fprint(h.out, prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, exitCommand) {
			fmt.Fprintln(h.out, "\nGoodbye!")
			return nil
		}
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput learns from one line and prints the response block.
func (h *InputHandler) handleInput(line string) {
	h.lines++
	start := time.Now()
	reply := h.engine.Respond(line)
	log.Debugf("Took [ %v ] for line %d", time.Since(start), h.lines)

	p := h.placeholder
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, h.styles.rule.Render("--- Response ---"))
	h.printField("Top Words", utils.JoinOr(reply.TopWords, p))
	h.printField(fmt.Sprintf("Suggestions for '%s'", reply.LastWord), utils.JoinOr(reply.Suggestions, p))
	h.printField("Next Word Prediction", utils.ValueOr(reply.NextWord, reply.HasNext, p))
	h.printField("Related Words", utils.JoinOr(reply.Related, p))
	fmt.Fprintln(h.out, h.styles.rule.Render("--- End of Response ---"))
	fmt.Fprintln(h.out)
}

func (h *InputHandler) printField(label, value string) {
	fmt.Fprintf(h.out, "%s %s\n", h.styles.label.Render(label+":"), h.styles.value.Render(value))
}
