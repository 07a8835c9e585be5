package main

import (
	"fmt"
	"os"

	"github.com/aretw0/trackable"
	"github.com/aretw0/trackable/internal/logging"
	"github.com/aretw0/trackable/internal/script"
	"github.com/aretw0/trackable/pkg/journal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var runCmd = &cobra.Command{
	Use:   "run <document> <script>",
	Short: "Apply a script to a document and print the mutations",
	Long: `Loads the document (YAML or JSON object or array), runs the operations listed in the
script through a tracker and prints every emitted mutation as YAML.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		printState, _ := cmd.Flags().GetBool("print-state")

		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		logger := logging.New(cmd.ErrOrStderr(), level)

		var doc any
		if err := readYAML(args[0], &doc); err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		ops, err := script.Parse(data)
		if err != nil {
			return err
		}

		tr, err := trackable.New(doc, trackable.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("track %s: %w", args[0], err)
		}
		defer tr.Teardown()

		rec := journal.NewRecorder()
		if err := tr.AddListener(rec, false); err != nil {
			return err
		}

		runErr := script.Run(tr, ops)
		logger.Info("script finished", "ops", len(ops), "mutations", rec.Len())

		out := cmd.OutOrStdout()
		if err := rec.WriteYAML(out); err != nil {
			return err
		}
		if runErr != nil {
			return runErr
		}

		if printState {
			fmt.Fprintln(out, "---")
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(tr.Value()); err != nil {
				return fmt.Errorf("encode state: %w", err)
			}
			return enc.Close()
		}
		return nil
	},
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("print-state", false, "Print the final document after the mutations")
}
