// Package main provides an interactive CLI for replaying the
// scripted support session through the reduction strategies.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/hooks"
	"github.com/rickchristie/winnow/integrationtest/conversation"
	"github.com/rickchristie/winnow/integrationtest/loggers"
	"github.com/rickchristie/winnow/models"
	"github.com/rickchristie/winnow/reduce"
	"github.com/tmc/langchaingo/llms"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

type menuItem struct {
	name        string
	description string
	run         func(
		ctx context.Context,
		w io.Writer,
		config conversation.TestConfig,
	) error
	isStep  bool
	newProc func(
		rl *readline.Instance,
		model llms.Model,
		registry *hooks.Registry,
	) (winnow.Processor, error)
}

func run() error {
	// Create log directory and file
	logDir := ".logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create log directory: %w", err)
	}

	logFile, err := os.Create(
		filepath.Join(logDir, "cli_replay.log"))
	if err != nil {
		return fmt.Errorf(
			"failed to create log file: %w", err)
	}
	defer logFile.Close()

	// Create readline instance for menu
	rl, err := readline.New(
		colorCyan +
			"Enter selection (or 'q' to quit): " +
			colorReset)
	if err != nil {
		return fmt.Errorf(
			"failed to create readline: %w", err)
	}
	defer rl.Close()

	// Digest scenarios work offline against the scripted mock;
	// the token only unlocks live digests.
	if os.Getenv("WINNOW_TEST_GITHUB_TOKEN") == "" {
		fmt.Fprintf(os.Stderr,
			"%sNote: WINNOW_TEST_GITHUB_TOKEN is not "+
				"set. Digest scenarios will use the "+
				"scripted mock model.%s\n",
			colorYellow, colorReset)
		fmt.Fprintln(os.Stderr)
	}

	// Build menu items
	var menuItems []menuItem

	for _, tc := range conversation.GetConversationTestCases() {
		menuItems = append(menuItems, menuItem{
			name:        tc.Name,
			description: tc.Description,
			run:         tc.Run,
		})
	}

	menuItems = append(menuItems, menuItem{
		name: "Step Replay (Sliding Window)",
		description: "Step through the script turn by " +
			"turn; diff the transcript after each trim",
		isStep:  true,
		newProc: promptSlidingWindow,
	})
	menuItems = append(menuItems, menuItem{
		name: "Step Replay (Summarizer)",
		description: "Step through the script turn by " +
			"turn; diff the transcript after each digest",
		isStep:  true,
		newProc: promptSummarizer,
	})

	// Print menu
	fmt.Printf("%s%sReplay Scenarios:%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("=", 17),
		colorReset)

	scenarioCount := 0
	for _, item := range menuItems {
		if !item.isStep {
			scenarioCount++
		}
	}

	for i := 0; i < scenarioCount; i++ {
		item := menuItems[i]
		fmt.Printf("  %s%d.%s %s%s%s - %s\n",
			colorCyan, i+1, colorReset,
			colorWhite, item.name, colorReset,
			item.description)
	}

	fmt.Println()
	fmt.Printf("%s%sInteractive Step Replay:%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("-", 24),
		colorReset)
	for i := scenarioCount; i < len(menuItems); i++ {
		item := menuItems[i]
		fmt.Printf("  %s%d.%s %s%s%s - %s\n",
			colorCyan, i+1, colorReset,
			colorWhite, item.name, colorReset,
			item.description)
	}
	fmt.Println()

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf(
					"\n%sGoodbye!%s\n",
					colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf(
				"failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			fmt.Printf(
				"%sGoodbye!%s\n",
				colorGreen, colorReset)
			return nil
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 ||
			num > len(menuItems) {
			fmt.Printf(
				"%sInvalid selection. "+
					"Please enter 1-%d.%s\n\n",
				colorRed, len(menuItems), colorReset)
			continue
		}

		ctx, cancel := context.WithCancel(
			context.Background())

		sigCh := make(chan os.Signal, 1)
		signal.Notify(
			sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Printf(
				"\n%sReceived interrupt, "+
					"cancelling...%s\n",
				colorYellow, colorReset)
			cancel()
		}()

		item := menuItems[num-1]
		if item.isStep {
			err = runStepReplay(ctx, rl, logFile, item)
		} else {
			err = runScenario(ctx, rl, logFile, item)
		}
		if err != nil {
			if err == readline.ErrInterrupt {
				signal.Stop(sigCh)
				cancel()
				fmt.Println()
				continue
			}
			fmt.Fprintf(os.Stderr,
				"%sError: %v%s\n",
				colorRed, err, colorReset)
		}

		signal.Stop(sigCh)
		cancel()

		fmt.Printf("\n%s%s%s\n\n",
			colorDim,
			strings.Repeat("-", 60),
			colorReset)
	}
}

// runScenario prompts for scenario options and runs one of the
// packaged replay scenarios.
func runScenario(
	ctx context.Context,
	rl *readline.Instance,
	logFile io.Writer,
	item menuItem,
) error {
	model, err := promptDigestModel(rl)
	if err != nil {
		return err
	}

	showTranscripts, err := promptYesNo(rl,
		"Dump the retained transcript after each reduction?",
		false)
	if err != nil {
		return err
	}

	config := conversation.TestConfig{
		DigestModel:     model,
		LogWriter:       logFile,
		ShowTranscripts: showTranscripts,
	}

	fmt.Printf("\n%sRunning: %s%s\n",
		colorGreen, item.name, colorReset)
	return item.run(ctx, os.Stdout, config)
}

// -----------------------------------------------------------------------------
// Processor Prompts
// -----------------------------------------------------------------------------

// promptSlidingWindow configures a sliding window from prompts.
func promptSlidingWindow(
	rl *readline.Instance,
	model llms.Model,
	registry *hooks.Registry,
) (winnow.Processor, error) {
	fmt.Println()
	fmt.Printf(
		"%s%sConfigure Sliding Window:%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("-", 25),
		colorReset)

	triggerTurns, err := promptInt(rl,
		"Trigger at transcript length (turns)",
		12, 2, 500)
	if err != nil {
		return nil, err
	}

	keepTurns, err := promptInt(rl,
		"Turns to keep after trimming",
		6, 1, 499)
	if err != nil {
		return nil, err
	}

	if keepTurns >= triggerTurns {
		fmt.Printf(
			"%sNote: keep >= trigger, so every firing "+
				"trims at most the excess over the "+
				"trigger.%s\n",
			colorYellow, colorReset)
	}

	fmt.Printf(
		"\n%sSliding Window: trigger at %d turns, "+
			"keep %d%s\n",
		colorGreen, triggerTurns, keepTurns, colorReset)

	return reduce.NewSlidingWindow(winnow.Config{
		Trigger: []winnow.ContextSize{
			winnow.Messages(triggerTurns),
		},
		Keep: winnow.Messages(keepTurns),
	}).WithHooks(registry), nil
}

// promptSummarizer configures a summarizer from prompts.
func promptSummarizer(
	rl *readline.Instance,
	model llms.Model,
	registry *hooks.Registry,
) (winnow.Processor, error) {
	fmt.Println()
	fmt.Printf(
		"%s%sConfigure Summarizer:%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("-", 21),
		colorReset)

	triggerTokens, err := promptInt(rl,
		"Trigger at estimated tokens",
		500, 50, 200000)
	if err != nil {
		return nil, err
	}

	keepTurns, err := promptInt(rl,
		"Turns to keep after digesting",
		6, 1, 499)
	if err != nil {
		return nil, err
	}

	budget, err := promptInt(rl,
		"Digest input budget (tokens, 0 for no cap)",
		800, 0, 200000)
	if err != nil {
		return nil, err
	}

	fmt.Printf(
		"\n%sSummarizer: trigger at ~%d tokens, "+
			"keep %d turns, budget %d%s\n",
		colorGreen, triggerTokens, keepTurns, budget,
		colorReset)

	summarizer := reduce.NewSummarizer(model, winnow.Config{
		Trigger: []winnow.ContextSize{
			winnow.Tokens(triggerTokens),
		},
		Keep: winnow.Messages(keepTurns),
	}).WithHooks(registry)
	if budget > 0 {
		summarizer = summarizer.WithDigestInputBudget(budget)
	}
	return summarizer, nil
}

// promptDigestModel selects the digest model. Without a token the
// scripted mock is the only option; with one, the user chooses.
func promptDigestModel(
	rl *readline.Instance,
) (llms.Model, error) {
	token := os.Getenv("WINNOW_TEST_GITHUB_TOKEN")
	if token == "" {
		return nil, nil
	}

	useLive, err := promptYesNo(rl,
		"Use live GitHub Models for digests?", false)
	if err != nil {
		return nil, err
	}
	if !useLive {
		return nil, nil
	}

	model, err := models.NewGitHubModel(
		models.GHGPT4oMini, token)
	if err != nil {
		return nil, err
	}
	fmt.Printf(
		"%sUsing %s via GitHub Models for digests.%s\n",
		colorGreen, models.GHGPT4oMini, colorReset)
	return model, nil
}

// promptInt prompts for an integer value with a default,
// minimum, and maximum.
func promptInt(
	rl *readline.Instance,
	label string,
	defaultVal, minVal, maxVal int,
) (int, error) {
	for {
		oldPrompt := rl.Config.Prompt
		prompt := fmt.Sprintf(
			"%s  %s [%d]: %s",
			colorCyan, label, defaultVal, colorReset)
		rl.SetPrompt(prompt)
		input, err := rl.Readline()
		rl.SetPrompt(oldPrompt)
		if err != nil {
			return 0, err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			return defaultVal, nil
		}

		val, err := strconv.Atoi(input)
		if err != nil || val < minVal || val > maxVal {
			fmt.Printf(
				"%sEnter a number between %d "+
					"and %d.%s\n",
				colorRed, minVal, maxVal, colorReset)
			continue
		}
		return val, nil
	}
}

// promptYesNo prompts for a yes/no answer with a default.
func promptYesNo(
	rl *readline.Instance,
	label string,
	defaultVal bool,
) (bool, error) {
	hint := "[y/N]"
	if defaultVal {
		hint = "[Y/n]"
	}
	oldPrompt := rl.Config.Prompt
	rl.SetPrompt(fmt.Sprintf(
		"%s  %s %s: %s",
		colorCyan, label, hint, colorReset))
	input, err := rl.Readline()
	rl.SetPrompt(oldPrompt)
	if err != nil {
		return false, err
	}

	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultVal, nil
	}
	return input == "y" || input == "yes", nil
}

// -----------------------------------------------------------------------------
// Step Replay
// -----------------------------------------------------------------------------

// runStepReplay walks the scripted session one turn at a time,
// running the processor after every appended turn the way a host
// agent would, and shows a unified diff of the transcript whenever
// a reduction fires.
func runStepReplay(
	ctx context.Context,
	rl *readline.Instance,
	logFile io.Writer,
	item menuItem,
) error {
	model, err := promptDigestModel(rl)
	if err != nil {
		return err
	}
	if model == nil {
		model = conversation.NewScriptedDigestModel()
	}

	registry := hooks.NewRegistry().Register(
		loggers.NewLoggerHookWithWriter(logFile))

	proc, err := item.newProc(rl, model, registry)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("=", 80),
		colorReset)
	fmt.Printf("%s%sSTEP REPLAY%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("=", 80),
		colorReset)
	fmt.Printf(
		"%sEnter advances one scripted turn, 'r' runs to "+
			"the end, 'q' stops.%s\n\n",
		colorDim, colorReset)

	oldPrompt := rl.Config.Prompt
	rl.SetPrompt(colorDim + "> " + colorReset)
	defer rl.SetPrompt(oldPrompt)

	fixture := conversation.NewFixture()
	transcript := make([]winnow.Turn, 0, fixture.Len())
	reductions := 0
	autorun := false

	for i := 0; i < fixture.Len(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		turn := fixture.Turn(i)
		transcript = append(transcript, turn)
		printTurn(i, turn)

		before := transcript
		reduced, err := proc.Process(ctx, transcript)
		if err != nil {
			// Reduction is fail-open: the processor hands
			// back the original transcript with the error,
			// so the replay continues on unreduced context.
			fmt.Fprintf(os.Stderr,
				"%sdigest failed: %v (continuing with "+
					"original transcript)%s\n",
				colorRed, err, colorReset)
		}
		if len(reduced) != len(before) {
			reductions++
			printReduction(before, reduced, reductions)
		}
		transcript = reduced

		if autorun {
			continue
		}
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf(
					"\n%sReplay stopped.%s\n",
					colorYellow, colorReset)
				return nil
			}
			return fmt.Errorf(
				"failed to read input: %w", err)
		}
		switch strings.TrimSpace(input) {
		case "q", "Q":
			fmt.Printf(
				"%sReplay stopped at turn %d.%s\n",
				colorYellow, i, colorReset)
			return nil
		case "r", "R":
			autorun = true
		}
	}

	fmt.Printf(
		"\n%sReplay complete: %d scripted turns, %d "+
			"reductions, final transcript %d turns "+
			"(~%d tokens).%s\n",
		colorGreen, fixture.Len(), reductions,
		len(transcript), winnow.EstimateTokens(transcript),
		colorReset)
	return nil
}

// printTurn prints one scripted turn, colored by role.
func printTurn(i int, turn winnow.Turn) {
	label := loggers.TurnLabel(turn)
	color := colorWhite
	switch label {
	case "User":
		color = colorCyan
	case "Assistant":
		color = colorGreen
	case "Tool Call":
		color = colorBlue
	case "Tool Result":
		color = colorDim
	case "Digest":
		color = colorMagenta
	}
	fmt.Printf("%s[%d] %s: %s%s\n",
		color, i, label,
		oneLine(loggers.TurnContent(turn), 100),
		colorReset)
}

// printReduction shows a unified diff of the transcript around a
// reduction.
func printReduction(before, after []winnow.Turn, n int) {
	fmt.Printf("\n%s%s[Reduction %d: %d -> %d turns]%s\n",
		colorBold, colorMagenta,
		n, len(before), len(after), colorReset)

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(transcriptLines(before)),
		B:        difflib.SplitLines(transcriptLines(after)),
		FromFile: "transcript (before)",
		ToFile:   "transcript (after)",
		Context:  2,
		Eol:      "\n",
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		fmt.Fprintf(os.Stderr,
			"%sfailed to diff transcripts: %v%s\n",
			colorRed, err, colorReset)
		return
	}
	printColoredDiff(text)
	fmt.Println()
}

// transcriptLines renders one line per turn without indices, so
// diffs show dropped and added turns rather than renumbering noise.
func transcriptLines(transcript []winnow.Turn) string {
	var b strings.Builder
	for _, turn := range transcript {
		b.WriteString(loggers.TurnLabel(turn))
		b.WriteString(": ")
		b.WriteString(oneLine(loggers.TurnContent(turn), 100))
		b.WriteString("\n")
	}
	return b.String()
}

// printColoredDiff prints a unified diff with conventional colors.
func printColoredDiff(text string) {
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"),
			strings.HasPrefix(line, "---"):
			fmt.Printf("%s%s%s%s\n",
				colorBold, colorWhite, line, colorReset)
		case strings.HasPrefix(line, "@@"):
			fmt.Printf("%s%s%s\n",
				colorCyan, line, colorReset)
		case strings.HasPrefix(line, "+"):
			fmt.Printf("%s%s%s\n",
				colorGreen, line, colorReset)
		case strings.HasPrefix(line, "-"):
			fmt.Printf("%s%s%s\n",
				colorRed, line, colorReset)
		default:
			fmt.Printf("%s%s%s\n",
				colorDim, line, colorReset)
		}
	}
}

// oneLine collapses a multi-line string to a single line and
// truncates it for terminal display.
func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
