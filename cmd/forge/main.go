package main

import (
	"fmt"
	"os"
	"time"

	"forge/cmd/forge/chat"
	"forge/internal/config"
	"forge/internal/llm"
	"forge/internal/logging"
	"forge/internal/prompt"
	"forge/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	baseURL   string
	model     string
	workspace string
	timeout   time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge - a conversational coding assistant for your files",
	Long: `forge is an interactive coding assistant that talks to an LLM about
your code and acts on its suggestions.

Share files with /add, ask for changes in plain language, and forge will
create files directly and apply edits after you confirm them.

Run without arguments to start the interactive chat interface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// statusCmd shows the effective configuration
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show forge configuration status",
	RunE:  showStatus,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (or set FORGE_API_KEY / DEEPSEEK_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (default: DeepSeek)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model name (default: deepseek-chat)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default: 2m)")

	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves config from files, environment, then flags.
func loadConfig() (*config.Config, string, error) {
	cwd := workspace
	if cwd == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve workspace: %w", err)
		}
	}

	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return nil, "", err
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if timeout > 0 {
		cfg.LLM.Timeout = timeout
	}
	return cfg, cwd, nil
}

// runChat starts the interactive session.
func runChat() error {
	cfg, cwd, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w\n\nSet FORGE_API_KEY, pass --api-key, or add it to %s", err, config.FileName)
	}

	logger, err := logging.New(cwd, cfg.Logging.File, cfg.Logging.Level, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	transcript := session.New()
	transcript.Append(session.RoleSystem, prompt.System)

	client := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})

	p := tea.NewProgram(
		chat.New(cfg, client, transcript, cwd, logger),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}

// showStatus displays the effective configuration
func showStatus(cmd *cobra.Command, args []string) error {
	cfg, cwd, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("forge Status")
	fmt.Println("============")
	fmt.Printf("Workspace: %s\n", cwd)
	fmt.Printf("Base URL:  %s\n", cfg.LLM.BaseURL)
	fmt.Printf("Model:     %s\n", cfg.LLM.Model)
	fmt.Printf("Timeout:   %s\n", cfg.LLM.Timeout)
	fmt.Println()

	if cfg.LLM.APIKey != "" {
		fmt.Println("✓ API key configured")
	} else {
		fmt.Println("✗ API key not configured (set FORGE_API_KEY or --api-key)")
	}
	if cfg.Logging.File != "" {
		fmt.Printf("✓ Logging to %s (level %s)\n", cfg.Logging.File, cfg.Logging.Level)
	} else {
		fmt.Println("- Logging disabled")
	}
	return nil
}
