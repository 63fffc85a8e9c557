package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/windmouse-cli/internal/config"
	"github.com/xkilldash9x/windmouse-cli/internal/driver/wsremote"
	"github.com/xkilldash9x/windmouse-cli/internal/observability"
	"github.com/xkilldash9x/windmouse-cli/internal/windmouse"
)

var streamFlags struct {
	to           string
	start        string
	agentURL     string
	hold         string
	tickDelay    time.Duration
	stepDuration time.Duration
	timeout      time.Duration
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream a trajectory to a remote cursor agent over websocket",
	Long: `stream connects to a cursor agent and replays a generated trajectory
as JSON pointer events. The agent owns the actual platform injection; this
command only speaks the wire protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := parsePoint(streamFlags.to)
		if err != nil {
			return err
		}
		start, err := parsePoint(streamFlags.start)
		if err != nil {
			return err
		}
		hold, err := config.ParseHoldButton(streamFlags.hold)
		if err != nil {
			return err
		}

		agentURL := streamFlags.agentURL
		if agentURL == "" {
			agentURL = appConfig.Driver.Remote.URL
		}
		if agentURL == "" {
			return fmt.Errorf("stream: no cursor agent URL (set --agent-url or driver.remote.url)")
		}

		logger := observability.GetLogger().Named("stream")

		ctx, cancel := context.WithTimeout(cmd.Context(), streamFlags.timeout)
		defer cancel()

		driver, err := wsremote.Dial(ctx, agentURL, logger)
		if err != nil {
			return err
		}
		defer driver.Close()

		ctrl, err := windmouse.NewController(driver, appConfig.Physics, windmouse.WithStart(start))
		if err != nil {
			return err
		}

		ctrl.SetDestination(to)
		logger.Info("streaming movement",
			zap.String("agent", agentURL),
			zap.Int("to_x", int(to.X)), zap.Int("to_y", int(to.Y)))

		if err := ctrl.MoveToTarget(ctx, streamFlags.tickDelay, streamFlags.stepDuration, hold); err != nil {
			return fmt.Errorf("stream: %w", err)
		}
		return nil
	},
}

func init() {
	streamCmd.Flags().StringVar(&streamFlags.to, "to", "", "destination point as \"x,y\"")
	streamCmd.Flags().StringVar(&streamFlags.start, "start", "0,0", "current cursor point on the agent as \"x,y\"")
	streamCmd.Flags().StringVar(&streamFlags.agentURL, "agent-url", "", "cursor agent websocket URL (ws://host:port/cursor)")
	streamCmd.Flags().StringVar(&streamFlags.hold, "hold", "none", "button to hold for the whole movement")
	streamCmd.Flags().DurationVar(&streamFlags.tickDelay, "tick-delay", 8*time.Millisecond, "pause between trajectory points")
	streamCmd.Flags().DurationVar(&streamFlags.stepDuration, "step-duration", 4*time.Millisecond, "duration hint sent with each move event")
	streamCmd.Flags().DurationVar(&streamFlags.timeout, "timeout", 60*time.Second, "overall deadline for the movement")
	_ = streamCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(streamCmd)
}
