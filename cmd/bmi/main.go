package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/liamcoop/bmi/bmi"
	"github.com/liamcoop/bmi/internal/config"
	"github.com/liamcoop/bmi/internal/logger"
	"github.com/liamcoop/bmi/rules"
	"github.com/liamcoop/bmi/scheme"
)

// output is the --json rendering of a result
type output struct {
	System        string       `json:"system"`
	Scheme        string       `json:"scheme"`
	Value         float64      `json:"value"`
	Display       string       `json:"display"`
	Category      bmi.Category `json:"category"`
	CategoryClass string       `json:"categoryClass"`
	Message       string       `json:"message"`
}

type app struct {
	schemes    *scheme.Manager
	schemeName string
	asJSON     bool
}

func newRootCmd(cfg config.Config) (*cobra.Command, error) {
	schemes, err := scheme.NewManagerWithBuiltins(rules.CacheConfig{TTL: cfg.RulesCacheTTL})
	if err != nil {
		return nil, err
	}
	a := &app{schemes: schemes}

	root := &cobra.Command{
		Use:           "bmi",
		Short:         "Compute Body Mass Index from height and weight",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.schemeName, "scheme", cfg.DefaultScheme, "classification scheme")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print the result as JSON")

	root.AddCommand(a.metricCmd(), a.imperialCmd(), a.schemesCmd())
	return root, nil
}

func (a *app) metricCmd() *cobra.Command {
	var heightCm, weightKg string

	cmd := &cobra.Command{
		Use:     "metric",
		Short:   "Height in centimeters, weight in kilograms",
		Example: "  bmi metric --height-cm 175 --weight-kg 70",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.OutOrStdout(), bmi.Metric, bmi.Inputs{
				HeightCm: bmi.Field(heightCm),
				WeightKg: bmi.Field(weightKg),
			})
		},
	}
	cmd.Flags().StringVar(&heightCm, "height-cm", "", "height in centimeters")
	cmd.Flags().StringVar(&weightKg, "weight-kg", "", "weight in kilograms")
	return cmd
}

func (a *app) imperialCmd() *cobra.Command {
	var heightFt, heightIn, weightLbs string

	cmd := &cobra.Command{
		Use:     "imperial",
		Short:   "Height in feet and inches, weight in pounds",
		Example: "  bmi imperial --height-ft 5 --height-in 9 --weight-lbs 154",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.OutOrStdout(), bmi.Imperial, bmi.Inputs{
				HeightFt:  bmi.Field(heightFt),
				HeightIn:  bmi.Field(heightIn),
				WeightLbs: bmi.Field(weightLbs),
			})
		},
	}
	cmd.Flags().StringVar(&heightFt, "height-ft", "", "height in feet")
	cmd.Flags().StringVar(&heightIn, "height-in", "", "additional inches (default 0)")
	cmd.Flags().StringVar(&weightLbs, "weight-lbs", "", "weight in pounds")
	return cmd
}

func (a *app) schemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List classification schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range a.schemes.List() {
				s, err := a.schemes.Scheme(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-10s %s\n", s.Name, s.Description)
			}
			return nil
		},
	}
}

func (a *app) run(out io.Writer, system bmi.MeasurementSystem, in bmi.Inputs) error {
	calc, err := a.schemes.Calculator(a.schemeName)
	if err != nil {
		return err
	}

	result, err := calc.Compute(system, in)
	if err != nil {
		logger.Debug("calculation rejected", "system", system.String(), "error", err)
		return err
	}
	if !result.Finite() {
		logger.Debug("calculation overflowed", "system", system.String(), "value", result.Value)
		return &bmi.ValidationError{}
	}

	if a.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(output{
			System:        system.String(),
			Scheme:        a.schemeName,
			Value:         result.Value,
			Display:       result.Display(),
			Category:      result.Category,
			CategoryClass: result.Category.Class(),
			Message:       bmi.Message(result),
		})
	}

	fmt.Fprintf(out, "BMI:      %s\n", result.Display())
	fmt.Fprintf(out, "Category: %s\n", result.Category)
	fmt.Fprintln(out, bmi.Message(result))
	return nil
}

// exitCode maps an error to a process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, bmi.ErrInvalidInput):
		return 2
	default:
		return 1
	}
}

func main() {
	// CLI logs go to stderr so stdout stays clean for results
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logger.LevelWarning)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root, err := newRootCmd(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
