package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/windmouse-cli/internal/driver/record"
	"github.com/xkilldash9x/windmouse-cli/internal/windmouse"
)

var traceFlags struct {
	from    string
	to      string
	seed    int64
	gravity float64
	wind    float64
	maxStep float64
	damped  float64
}

// traceOutput is the JSON document the trace command prints.
type traceOutput struct {
	Movement uuid.UUID               `json:"movement"`
	From     windmouse.Position      `json:"from"`
	To       windmouse.Position      `json:"to"`
	Physics  windmouse.PhysicsConfig `json:"physics"`
	Points   []windmouse.Position    `json:"points"`
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Generate a trajectory and print it as JSON",
	Long: `trace runs the full movement pipeline against an in-memory recording
driver and prints the emitted points, for plotting or offline inspection.
Pass --seed for reproducible output; without it every run differs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parsePoint(traceFlags.from)
		if err != nil {
			return err
		}
		to, err := parsePoint(traceFlags.to)
		if err != nil {
			return err
		}

		cfg := physicsFromFlags(appConfig.Physics,
			traceFlags.gravity, traceFlags.wind, traceFlags.maxStep, traceFlags.damped,
			cmd.Flags().Changed)
		if cmd.Flags().Changed("seed") {
			cfg.Rng = rand.New(rand.NewSource(traceFlags.seed))
		}

		return runTrace(cmd.Context(), cmd.OutOrStdout(), from, to, cfg)
	},
}

// runTrace drives a controller over the recording driver and writes the
// collected path as indented JSON.
func runTrace(ctx context.Context, out io.Writer, from, to windmouse.Position, cfg windmouse.PhysicsConfig) error {
	driver := record.New(from)
	ctrl, err := windmouse.NewController(driver, cfg, windmouse.WithStart(from))
	if err != nil {
		return err
	}

	ctrl.SetDestination(to)
	if err := ctrl.MoveToTarget(ctx, 0, 0, windmouse.ButtonNone); err != nil {
		return err
	}

	steps := driver.Steps()
	doc := traceOutput{
		From:    from,
		To:      to,
		Physics: cfg,
		Points:  make([]windmouse.Position, 0, len(steps)),
	}
	for _, s := range steps {
		doc.Movement = s.Movement
		doc.Points = append(doc.Points, s.Position)
	}

	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("trace: encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}

func init() {
	traceCmd.Flags().StringVar(&traceFlags.from, "from", "0,0", "start point as \"x,y\"")
	traceCmd.Flags().StringVar(&traceFlags.to, "to", "", "destination point as \"x,y\"")
	traceCmd.Flags().Int64Var(&traceFlags.seed, "seed", 0, "seed the RNG for reproducible output")
	traceCmd.Flags().Float64Var(&traceFlags.gravity, "gravity", windmouse.DefaultGravityMagnitude, "gravity magnitude")
	traceCmd.Flags().Float64Var(&traceFlags.wind, "wind", windmouse.DefaultWindMagnitude, "wind magnitude")
	traceCmd.Flags().Float64Var(&traceFlags.maxStep, "max-step", windmouse.DefaultMaxStep, "velocity cap in pixels per step")
	traceCmd.Flags().Float64Var(&traceFlags.damped, "damped-distance", windmouse.DefaultDampedDistance, "wind damping radius in pixels")
	_ = traceCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(traceCmd)
}
