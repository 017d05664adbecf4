package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/folio/internal/secrets"
	"github.com/aretw0/folio/pkg/validate"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively configure the .env file",
	Long: `Walks through provider selection, API key entry, and model choice,
then writes a .env file. Keys are read without echo and values are
validated before anything is written.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWizard(); err != nil {
			printError(err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

var profile = termenv.ColorProfile()

func printSuccess(msg string) {
	fmt.Println(termenv.String("✔ " + msg).Foreground(profile.Color("#22c55e")))
}

func printError(msg string) {
	fmt.Println(termenv.String("✘ " + msg).Foreground(profile.Color("#ef4444")))
}

func printWarning(msg string) {
	fmt.Println(termenv.String("! " + msg).Foreground(profile.Color("#eab308")))
}

func printHeader(msg string) {
	fmt.Println()
	fmt.Println(termenv.String(msg).Bold().Foreground(profile.Color("#818cf8")))
	fmt.Println(termenv.String(strings.Repeat("─", len(msg))).Foreground(profile.Color("#818cf8")))
}

func runWizard() error {
	reader := bufio.NewReader(os.Stdin)

	printHeader("Folio Setup")
	checkDependencies()

	printHeader("Provider")
	names := make([]string, 0, len(secrets.Providers))
	for name := range secrets.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		fmt.Printf("  %d) %s\n", i+1, name)
	}

	provider := prompt(reader, "Provider", "openrouter")
	if _, ok := secrets.Providers[provider]; !ok {
		return fmt.Errorf("unsupported provider %q", provider)
	}

	fmt.Printf("API key for %s (input hidden): ", provider)
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	apiKey := strings.TrimSpace(string(keyBytes))
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	printHeader("Model")
	modelInput := prompt(reader, "Completion model", "openrouter/google/gemini-2.5-pro")
	model, err := validate.NewModelName(modelInput)
	if err != nil {
		return err
	}

	env := []string{
		secrets.Providers[provider].KeyEnv + "=" + apiKey,
		"COMPLETION_MODEL=" + model.String(),
	}

	if _, err := os.Stat(".env"); err == nil {
		printWarning(".env already exists")
		if prompt(reader, "Overwrite? (y/N)", "n") != "y" {
			printWarning("keeping existing .env")
			return nil
		}
	}

	if err := os.WriteFile(".env", []byte(strings.Join(env, "\n")+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write .env: %w", err)
	}

	printSuccess(".env written")
	return nil
}

// checkDependencies probes for the external tools folio mediates.
// Missing tools are a warning, not an error: the operator may only
// need a subset of the commands.
func checkDependencies() {
	tools := map[string]string{
		"git":      "version control",
		"pdflatex": "document compilation",
		"bibtex":   "bibliography resolution",
		"python3":  "helper scripts",
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := exec.LookPath(name); err == nil {
			printSuccess(name + " found (" + tools[name] + ")")
		} else {
			printWarning(name + " not found (" + tools[name] + ")")
		}
	}
}

func prompt(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}
