package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Inventure71/EvolveProject/agent"
	"github.com/Inventure71/EvolveProject/client"
	"github.com/Inventure71/EvolveProject/internal/store"
	"github.com/Inventure71/EvolveProject/model"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Run the agent on a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		registry, remote, err := buildRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		defer remote.Close()

		clientCfg, err := cfg.ClientConfig()
		if err != nil {
			return err
		}
		c, err := client.New(ctx, clientCfg)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		prompt := strings.Join(args, " ")
		result, runErr := agent.New(c, registry).Run(ctx, prompt, cfg.AgentOptions()...)
		if result == nil {
			return runErr
		}

		if path, _ := cmd.Flags().GetString("transcript"); path != "" {
			if err := store.NewMessageStore(result.History...).WriteFile(path); err != nil {
				return errors.Join(runErr, fmt.Errorf("failed to write transcript: %w", err))
			}
			slog.Info("Transcript written", "path", path, "messages", len(result.History))
		}

		logCost(c, result)
		if runErr != nil {
			return runErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		return nil
	},
}

// logCost reports token usage and, for priced models, the estimated cost.
func logCost(c *client.Client, result *agent.Result) {
	attrs := []any{
		"run", result.RunID,
		"steps", result.Steps,
		"termination", result.Termination,
		"input_tokens", result.TotalUsage.InputTokens,
		"output_tokens", result.TotalUsage.OutputTokens,
	}
	if m, ok := model.Lookup(c.Provider(), c.Model()); ok {
		attrs = append(attrs, "cost_usd", fmt.Sprintf("%.6f", m.Cost(result.TotalUsage)))
	}
	slog.Info("Run usage", attrs...)
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("agent.max_steps", agent.DefaultMaxSteps, "maximum model calls")
	runCmd.Flags().String("agent.timeout", "", "deadline for the whole run, e.g. 10m")
	runCmd.Flags().Bool("agent.reload_each_step", false, "reload tools after every dispatch")
	runCmd.Flags().String("transcript", "", "write the conversation history as JSON to this path")
}
