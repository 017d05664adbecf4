package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/script"
)

var runCmd = &cobra.Command{
	Use:   "run <script.py> [args...]",
	Short: "Run a helper script through the configured interpreter",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		dir, _ := cmd.Flags().GetString("dir")

		boundary := newBoundary(cfg, logger)
		result, err := boundary.Script.Run(context.Background(), script.RunOptions{
			ScriptPath: args[0],
			Args:       args[1:],
			Dir:        dir,
			Timeout:    cfg.Script.Timeout.Std(),
		})
		if err != nil {
			fmt.Printf("Script failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(result.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("dir", "d", "", "Working directory for the script")
}
