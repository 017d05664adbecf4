package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch>",
	Short: "Check out a branch in a cloned repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		repoDir, _ := cmd.Flags().GetString("repo")
		create, _ := cmd.Flags().GetBool("create")

		boundary := newBoundary(cfg, logger)
		if err := boundary.Git.Checkout(context.Background(), args[0], repoDir, create); err != nil {
			fmt.Printf("Checkout failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Checked out %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
	checkoutCmd.Flags().String("repo", ".", "Repository directory")
	checkoutCmd.Flags().BoolP("create", "c", false, "Create the branch")
}
