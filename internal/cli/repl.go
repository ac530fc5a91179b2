package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"tripmate/internal/config"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// replSessionID is the fixed session used by the local chat harness.
const replSessionID = "local-chat"

// Run starts the interactive chat harness against the assembled engine.
func Run(cfg *config.Config) error {
	printWelcome()

	if !cfg.IsAPIKeyConfigured() {
		fmt.Printf("%sWarning: model.api_key is not configured; completions will fail%s\n\n", colorYellow, colorReset)
	}

	ctx := context.Background()

	rt, err := Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	return runREPL(ctx, rt)
}

// printWelcome prints welcome message
func printWelcome() {
	fmt.Printf("\n%sTripMate%s - travel assistant chat harness\n", colorCyan, colorReset)
	fmt.Printf("%sType /help for help, /exit to quit%s\n\n", colorGray, colorReset)
}

// getHistoryFilePath returns the readline history file path
func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	historyDir := filepath.Join(homeDir, ".tripmate")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return ""
	}
	return filepath.Join(historyDir, "history")
}

// runREPL runs the interactive loop with readline support
func runREPL(ctx context.Context, rt *Runtime) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            fmt.Sprintf("%sYou: %s", colorGreen, colorReset),
		HistoryFile:       getHistoryFilePath(),
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf("\n%sType /exit to quit%s\n", colorYellow, colorReset)
				continue
			}
			if err == io.EOF {
				fmt.Printf("\n%sGoodbye!%s\n", colorCyan, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleCommand(ctx, input, rt) {
				continue
			}
			return nil // /exit
		}

		reply := rt.Engine.HandleMessage(ctx, replSessionID, input)
		fmt.Printf("\n%sTripMate: %s%s\n\n", colorBlue, colorReset, reply)
	}
}

// handleCommand handles built-in commands, returns true to continue loop,
// false to exit
func handleCommand(ctx context.Context, cmd string, rt *Runtime) bool {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])

	switch command {
	case "/help":
		printHelp()
		return true

	case "/clear":
		rt.Engine.ClearMemory(replSessionID)
		fmt.Printf("%sConversation memory cleared%s\n", colorGreen, colorReset)
		return true

	case "/ingest":
		if len(parts) < 2 {
			fmt.Printf("%sUsage: /ingest <path>%s\n", colorYellow, colorReset)
			return true
		}
		if rt.Pipeline.Ingest(ctx, parts[1]) {
			fmt.Printf("%sIngested %s (index now %d chunks)%s\n", colorGreen, parts[1], rt.Index.Count(), colorReset)
		} else {
			fmt.Printf("%sFailed to ingest %s (see logs)%s\n", colorRed, parts[1], colorReset)
		}
		return true

	case "/config":
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("%sFailed to load config: %v%s\n", colorRed, err, colorReset)
		} else {
			fmt.Println(cfg.String())
		}
		return true

	case "/exit", "/quit", "/q":
		fmt.Printf("%sGoodbye!%s\n", colorCyan, colorReset)
		return false

	default:
		fmt.Printf("%sUnknown command: %s%s\n", colorYellow, cmd, colorReset)
		fmt.Println("Type /help for available commands")
		return true
	}
}

// printHelp prints help information
func printHelp() {
	fmt.Printf(`
%sTripMate Chat Harness%s

%sBuilt-in Commands:%s
  /help           - Show this help message
  /clear          - Clear conversation memory for this session
  /ingest <path>  - Ingest a document into the semantic index
  /config         - Show current configuration
  /exit           - Exit program

%sExamples:%s
  "hi"
  "I want to book a trip to Paris"
  "What documents do I need for a visa?"

`, colorCyan, colorReset, colorYellow, colorReset, colorYellow, colorReset)
}
