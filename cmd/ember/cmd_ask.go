package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/emberlab/ember/internal/compose"
	"github.com/emberlab/ember/internal/style"
	"github.com/emberlab/ember/internal/tui"
)

func newAskCmd(stdout, stderr io.Writer) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Interactively compose inputs and run inference cycles",
		Long: `Start an interactive session. Each turn composes an input, runs one
burn-after-reading inference cycle, and prints the answer. No conversation
state survives between turns.

Strategies:
  guided  wrap your content in a summarization frame with a task directive
  direct  compose raw message blocks yourself`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strat := tui.Strategy(strategy)
			if strat != tui.StrategyGuided && strat != tui.StrategyDirect {
				return fmt.Errorf("unknown strategy %q: want guided or direct", strategy)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			log := newLogger(cmd, stderr)
			runner, err := connect(ctx, stderr, log)
			if err != nil {
				return err
			}

			composer := func() (tui.Composition, error) {
				if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
					return tui.RunComposer(strat)
				}
				return plainComposer(strat, bufio.NewReader(cmd.InOrStdin()), stderr)
			}

			return runAsk(ctx, stdout, stderr, runner, composer)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "guided", "Input strategy: guided or direct")

	return cmd
}

// runAsk drives the compose/infer loop until the composer reports quit.
func runAsk(ctx context.Context, stdout, stderr io.Writer, runner inferenceRunner, composer func() (tui.Composition, error)) error {
	for {
		comp, err := composer()
		if err != nil {
			return fmt.Errorf("composing input: %w", err)
		}
		if comp.Quit {
			fmt.Fprintln(stderr, style.Dim.Render("Bye."))
			return nil
		}

		packaged, err := packageComposition(comp)
		if err != nil {
			// Nothing usable was composed. No remote call, re-prompt.
			fmt.Fprintf(stderr, "%s %v\n", style.Warning.Render(style.IconWarn), err)
			continue
		}

		spin := style.StartSpinner(stderr, "Thinking...")
		res, err := runner.Run(ctx, packaged)
		spin.Stop()
		switch {
		case err != nil:
			fmt.Fprintf(stderr, "%s Inference failed: %v\n", style.Error.Render(style.IconFail), err)
		case !res.OK:
			fmt.Fprintf(stderr, "%s No answer returned. Try rephrasing.\n", style.Warning.Render(style.IconWarn))
		default:
			fmt.Fprintln(stdout, style.Title.Render(res.Title))
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// packageComposition turns a composer result into the message_content payload.
func packageComposition(c tui.Composition) (string, error) {
	if c.Strategy == tui.StrategyDirect {
		return compose.Direct(c.Messages)
	}
	return compose.Guided(c.Content, c.Directive)
}

// plainComposer is the line-prompt fallback used when stdin is not a
// terminal. It mirrors the full-screen composer's result shape.
func plainComposer(strategy tui.Strategy, in *bufio.Reader, out io.Writer) (tui.Composition, error) {
	if strategy == tui.StrategyDirect {
		return plainDirect(in, out)
	}
	return plainGuided(in, out)
}

func plainGuided(in *bufio.Reader, out io.Writer) (tui.Composition, error) {
	fmt.Fprintln(out, "Content to analyze (finish with a line containing only EOF, empty to quit):")
	content, err := readUntilSentinel(in)
	if err != nil {
		return tui.Composition{}, err
	}
	if strings.TrimSpace(content) == "" {
		return tui.Composition{Strategy: tui.StrategyGuided, Quit: true}, nil
	}

	fmt.Fprint(out, "Task directive: ")
	directive, err := readLine(in)
	if err != nil {
		return tui.Composition{}, err
	}

	return tui.Composition{Strategy: tui.StrategyGuided, Content: content, Directive: directive}, nil
}

func plainDirect(in *bufio.Reader, out io.Writer) (tui.Composition, error) {
	fmt.Fprintf(out, "Number of messages (1-%d, empty to quit): ", compose.MaxMessages)
	line, err := readLine(in)
	if err != nil {
		return tui.Composition{}, err
	}
	if strings.TrimSpace(line) == "" {
		return tui.Composition{Strategy: tui.StrategyDirect, Quit: true}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > compose.MaxMessages {
		return tui.Composition{}, fmt.Errorf("message count must be 1-%d", compose.MaxMessages)
	}

	msgs := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(out, "Message %d (finish with a line containing only EOF):\n", i)
		msg, err := readUntilSentinel(in)
		if err != nil {
			return tui.Composition{}, err
		}
		msgs = append(msgs, msg)
	}

	comp := tui.Composition{Strategy: tui.StrategyDirect, Messages: msgs}
	if n == 1 {
		fmt.Fprint(out, "Auto-fill the acknowledgement as message 2? [Y/n]: ")
		answer, err := readLine(in)
		if err != nil {
			return tui.Composition{}, err
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a == "" || a == "y" || a == "yes" {
			comp.Messages = append(comp.Messages, compose.Acknowledgement)
			comp.AutoAck = true
		}
	}
	return comp, nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readUntilSentinel collects lines until a bare "EOF" line or end of input.
func readUntilSentinel(in *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := in.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "EOF" {
			break
		}
		if line != "" {
			lines = append(lines, trimmed)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.Join(lines, "\n"), nil
}
