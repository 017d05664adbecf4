package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/gitops"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <url> <target-dir>",
	Short: "Clone a reference repository",
	Long: `Clones a repository after validating the URL (https or git scheme,
no local hosts) and the optional branch name. The target directory must
not exist yet.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		branch, _ := cmd.Flags().GetString("branch")
		depth, _ := cmd.Flags().GetInt("depth")

		boundary := newBoundary(cfg, logger)
		err = boundary.Git.Clone(context.Background(), gitops.CloneOptions{
			URL:       args[0],
			TargetDir: args[1],
			Branch:    branch,
			Depth:     depth,
			Timeout:   cfg.Git.CloneTimeout.Std(),
		})
		if err != nil {
			fmt.Printf("Clone failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cloned %s into %s\n", args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	cloneCmd.Flags().StringP("branch", "b", "", "Branch to clone")
	cloneCmd.Flags().Int("depth", 1, "Shallow clone depth (negative for full history)")
}
