package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file.tex>",
	Short: "Compile a LaTeX document to PDF",
	Long: `Runs the typesetting tool for the configured number of passes with
shell escape disabled, resolving the bibliography after the first pass
when a .bib database is present. The argument must be a bare filename
inside the project directory, not a path.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		projectDir, _ := cmd.Flags().GetString("project")

		boundary := newBoundary(cfg, logger)
		pdf, err := boundary.Latex.Compile(context.Background(), args[0], projectDir)
		if err != nil {
			fmt.Printf("Compilation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("PDF written to %s\n", pdf)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("project", "p", ".", "Project directory containing the document")
}
