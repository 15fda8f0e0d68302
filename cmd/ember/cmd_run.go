package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberlab/ember/internal/compose"
	"github.com/emberlab/ember/internal/oneshot"
	"github.com/emberlab/ember/internal/style"
)

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		content     string
		contentFile string
		directive   string
		messages    []string
		autoAck     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single inference and print the answer",
		Long: `Run one burn-after-reading inference cycle and print the answer to stdout.

Guided strategy (default): wrap content in a summarization frame with your
task directive. Content comes from --content, --content-file, or stdin.

Direct strategy: pass raw message blocks with repeated --message flags.
With exactly one --message, --auto-ack appends the canned acknowledgement
as message 2.

Examples:
  ember run --content "Paris is the capital of France." --directive "Name the country."
  ember run --content-file notes.txt --directive "Summarize in five words."
  cat notes.txt | ember run --directive "Summarize in five words."
  ember run --message "What is 1+1? Answer with a number." --auto-ack`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, stdout, stderr, content, contentFile, directive, messages, autoAck)
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Content to analyze (guided strategy)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read content from a file (guided strategy)")
	cmd.Flags().StringVar(&directive, "directive", "", "Task directive appended to the content (guided strategy)")
	cmd.Flags().StringArrayVar(&messages, "message", nil, "Raw message block (direct strategy, repeatable)")
	cmd.Flags().BoolVar(&autoAck, "auto-ack", false, "Append the canned acknowledgement as message 2")

	return cmd
}

func runRun(cmd *cobra.Command, stdout, stderr io.Writer, content, contentFile, directive string, messages []string, autoAck bool) error {
	if len(messages) > 0 && (content != "" || contentFile != "" || directive != "") {
		return fmt.Errorf("--message cannot be combined with --content/--content-file/--directive")
	}

	if len(messages) == 0 {
		var err error
		content, err = readContent(cmd.InOrStdin(), content, contentFile)
		if err != nil {
			return err
		}
	}

	packaged, err := packageInput(messages, autoAck, content, directive)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log := newLogger(cmd, stderr)
	runner, err := connect(ctx, stderr, log)
	if err != nil {
		return err
	}

	return runOnce(ctx, runner, packaged, stdout, stderr)
}

// inferenceRunner is the slice of oneshot.Runner the commands need.
// Faked in tests.
type inferenceRunner interface {
	Run(ctx context.Context, content string) (*oneshot.Result, error)
}

// runOnce executes one cycle and prints the outcome.
func runOnce(ctx context.Context, runner inferenceRunner, packaged string, stdout, stderr io.Writer) error {
	spin := style.StartSpinner(stderr, "Thinking...")
	res, err := runner.Run(ctx, packaged)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("running inference: %w", err)
	}
	if !res.OK {
		fmt.Fprintf(stderr, "%s No answer returned. Check your input or try again.\n",
			style.Warning.Render(style.IconWarn))
		return errExit
	}

	fmt.Fprintln(stdout, res.Title)
	return nil
}

// packageInput turns the flag inputs into the message_content payload.
// Direct strategy when messages are present, guided otherwise.
func packageInput(messages []string, autoAck bool, content, directive string) (string, error) {
	if len(messages) > 0 {
		if autoAck {
			if len(messages) != 1 {
				return "", fmt.Errorf("--auto-ack requires exactly one --message, got %d", len(messages))
			}
			return compose.DirectAutoFill(messages[0]), nil
		}
		return compose.Direct(messages)
	}
	return compose.Guided(content, directive)
}

// readContent resolves the guided content from flag, file, or stdin.
func readContent(stdin io.Reader, content, contentFile string) (string, error) {
	switch {
	case content != "":
		return content, nil
	case contentFile != "":
		data, err := os.ReadFile(contentFile)
		if err != nil {
			return "", fmt.Errorf("reading content file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("no content: use --content, --content-file, or pipe to stdin")
		}
		return string(data), nil
	}
}
