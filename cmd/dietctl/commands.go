package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/healthy-diet-client/internal/app"
	"github.com/Adda-Baaj/healthy-diet-client/internal/config"
	"github.com/Adda-Baaj/healthy-diet-client/internal/logger"
	"github.com/Adda-Baaj/healthy-diet-client/pkg/dietapi"
)

func newRootCmd(cfg *config.Config, log logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "dietctl",
		Short:         "Ask the healthy-diet service for recipes and weekly diet plans",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("base-url", "", "backend or proxy URL the /api base path is resolved against")
	root.PersistentFlags().StringP("output", "o", "json", "output format: json or yaml")

	// open builds the assistant for one command, honouring --base-url.
	open := func(cmd *cobra.Command) (*app.Assistant, error) {
		c := *cfg
		if u, _ := cmd.Flags().GetString("base-url"); strings.TrimSpace(u) != "" {
			c.APIBaseURL = strings.TrimSpace(u)
		}
		return app.NewAssistant(cmd.Context(), &c, log)
	}

	recommendCmd := &cobra.Command{
		Use:   "recommend <ingredient>...",
		Short: "Recommend recipes that use the given ingredients",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.Recommend(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("recommend: %s", dietapi.ErrorDetail(err))
			}
			return render(cmd, out)
		},
	}

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a weekly diet plan",
		Long: "Generate a weekly diet plan. With --file the JSON document is sent as-is " +
			"(use - for stdin); otherwise the request is built from flags.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := planPayload(cmd)
			if err != nil {
				return err
			}

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.Plan(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("plan: %s", dietapi.ErrorDetail(err))
			}
			return render(cmd, out)
		},
	}
	planCmd.Flags().StringP("file", "f", "", "JSON request body to forward verbatim")
	planCmd.Flags().Float64("weight", 0, "weight in kg")
	planCmd.Flags().Float64("height", 0, "height in cm")
	planCmd.Flags().Int("age", 0, "age in years")
	planCmd.Flags().String("gender", "", "gender, e.g. 男 or 女")
	planCmd.Flags().String("goal", "", "goal: weight-loss, muscle-gain, maintenance (or 减脂, 增肌, 维持)")
	planCmd.Flags().String("activity-level", "", "sedentary, light, moderate or active")
	planCmd.Flags().Int("daily-steps", 0, "average daily steps")

	historyCmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show locally journaled calls",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 1 {
				rec, err := a.HistoryRecord(args[0])
				if err != nil {
					return err
				}
				return render(cmd, rec)
			}
			limit, _ := cmd.Flags().GetInt("limit")
			records, err := a.History(limit)
			if err != nil {
				return err
			}
			return render(cmd, records)
		},
	}
	historyCmd.Flags().IntP("limit", "n", 20, "maximum records to show (0 for all)")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the backend answers through the base path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.Health(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, info)
		},
	}

	root.AddCommand(recommendCmd, planCmd, historyCmd, healthCmd)
	return root
}

// planPayload returns the request body for the plan command.
func planPayload(cmd *cobra.Command) (json.RawMessage, error) {
	flags := cmd.Flags()
	if file, _ := flags.GetString("file"); file != "" {
		raw, err := readPayload(cmd.InOrStdin(), file)
		if err != nil {
			return nil, err
		}
		if !json.Valid(raw) {
			return nil, fmt.Errorf("%s does not contain a JSON document", file)
		}
		return json.RawMessage(raw), nil
	}

	var req dietapi.DietPlanRequest
	req.Weight, _ = flags.GetFloat64("weight")
	req.Height, _ = flags.GetFloat64("height")
	req.Age, _ = flags.GetInt("age")
	req.Gender, _ = flags.GetString("gender")

	goal, _ := flags.GetString("goal")
	g, err := parseGoal(goal)
	if err != nil {
		return nil, err
	}
	req.Goal = g

	if flags.Changed("activity-level") {
		lvl, _ := flags.GetString("activity-level")
		al := dietapi.ActivityLevel(strings.ToLower(strings.TrimSpace(lvl)))
		req.ActivityLevel = &al
	}
	if flags.Changed("daily-steps") {
		steps, _ := flags.GetInt("daily-steps")
		req.DailySteps = &steps
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode plan request: %w", err)
	}
	return raw, nil
}

func readPayload(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return raw, nil
}

func parseGoal(s string) (dietapi.GoalType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weight-loss", "weight_loss", string(dietapi.GoalWeightLoss):
		return dietapi.GoalWeightLoss, nil
	case "muscle-gain", "muscle_gain", string(dietapi.GoalMuscleGain):
		return dietapi.GoalMuscleGain, nil
	case "maintenance", "maintain", string(dietapi.GoalMaintenance):
		return dietapi.GoalMaintenance, nil
	case "":
		return "", errors.New("--goal is required unless --file is given")
	default:
		return "", fmt.Errorf("unknown goal %q", s)
	}
}
