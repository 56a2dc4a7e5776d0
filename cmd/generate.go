package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"selenex/internal/config"
	"selenex/internal/generator"
	"selenex/internal/session"
)

type generateOptions struct {
	output     string
	policyFile string
	startURL   string
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [session.json]",
		Short: "Generate a Python Selenium script from a recorded session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			input := cfg.Generator.InputFile
			if len(args) == 1 {
				input = args[0]
			}
			return runGenerate(cmd, cfg, input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "script file to write (default $SELENEX_OUTPUT or test_script.py)")
	cmd.Flags().StringVar(&opts.policyFile, "policy", "", "YAML selector policy file")
	cmd.Flags().StringVar(&opts.startURL, "start-url", "", "start URL when no event carries one")
	return cmd
}

// runGenerate writes the output file only after the whole script has been
// generated.
func runGenerate(cmd *cobra.Command, cfg *config.Config, input string, opts *generateOptions) error {
	output := cfg.Generator.OutputFile
	if opts.output != "" {
		output = opts.output
	}
	if opts.policyFile != "" {
		cfg.Generator.PolicyFile = opts.policyFile
	}
	if opts.startURL != "" {
		cfg.Generator.StartURL = opts.startURL
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s...\n", cyan("Generating script from"), input)

	events, err := session.Load(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s not found", input)
		}
		return err
	}

	gen, err := generator.FromConfig(cfg.Generator)
	if err != nil {
		return err
	}
	program, err := gen.Generate(events)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, []byte(program.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	fmt.Fprintf(out, "%s %s %s\n", green("✅ Generated test script:"), output,
		gray(fmt.Sprintf("(%d events, %d blocks, %d navigations)", len(events), len(program.Blocks), program.Count(generator.KindNavigation))))
	return nil
}
