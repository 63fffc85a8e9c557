package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/windmouse-cli/internal/config"
	"github.com/xkilldash9x/windmouse-cli/internal/driver/cdp"
	"github.com/xkilldash9x/windmouse-cli/internal/observability"
	"github.com/xkilldash9x/windmouse-cli/internal/windmouse"
)

var moveFlags struct {
	to           string
	start        string
	url          string
	devtoolsURL  string
	hold         string
	tickDelay    time.Duration
	stepDuration time.Duration
	timeout      time.Duration
}

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Humanly move the in-page cursor in a Chrome session",
	Long: `move attaches to a Chrome instance over the DevTools protocol (or
launches a headless one), optionally navigates to a page, and replays a
generated trajectory as real input events. With --hold the whole movement
becomes a drag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := parsePoint(moveFlags.to)
		if err != nil {
			return err
		}
		start, err := parsePoint(moveFlags.start)
		if err != nil {
			return err
		}
		hold, err := config.ParseHoldButton(moveFlags.hold)
		if err != nil {
			return err
		}

		logger := observability.GetLogger().Named("move")

		ctx, cancel := context.WithTimeout(cmd.Context(), moveFlags.timeout)
		defer cancel()

		browserCtx, cancelBrowser, err := newBrowserContext(ctx)
		if err != nil {
			return err
		}
		defer cancelBrowser()

		if moveFlags.url != "" {
			if err := chromedp.Run(browserCtx, chromedp.Navigate(moveFlags.url)); err != nil {
				return fmt.Errorf("move: navigate to %s: %w", moveFlags.url, err)
			}
		} else if err := chromedp.Run(browserCtx); err != nil {
			return fmt.Errorf("move: start browser: %w", err)
		}

		driver := cdp.New(logger, cdp.WithJitter(appConfig.Driver.CDP.Jitter))
		ctrl, err := windmouse.NewController(driver, appConfig.Physics, windmouse.WithStart(start))
		if err != nil {
			return err
		}

		ctrl.SetDestination(to)
		logger.Info("starting movement",
			zap.Int("to_x", int(to.X)), zap.Int("to_y", int(to.Y)), zap.String("hold", string(hold)))

		if err := ctrl.MoveToTarget(browserCtx, moveFlags.tickDelay, moveFlags.stepDuration, hold); err != nil {
			return fmt.Errorf("move: %w", err)
		}

		logger.Info("movement complete")
		return nil
	},
}

// newBrowserContext attaches to a remote browser when a devtools URL is
// configured and launches a local headless instance otherwise.
func newBrowserContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	devtools := moveFlags.devtoolsURL
	if devtools == "" {
		devtools = appConfig.Driver.CDP.DevtoolsURL
	}

	if devtools != "" {
		allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, devtools)
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
		return browserCtx, func() {
			cancelBrowser()
			cancelAlloc()
		}, nil
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}, nil
}

func init() {
	moveCmd.Flags().StringVar(&moveFlags.to, "to", "", "destination point as \"x,y\"")
	moveCmd.Flags().StringVar(&moveFlags.start, "start", "0,0", "assumed current cursor point as \"x,y\"")
	moveCmd.Flags().StringVar(&moveFlags.url, "url", "", "page to navigate to before moving")
	moveCmd.Flags().StringVar(&moveFlags.devtoolsURL, "devtools-url", "", "attach to a running browser (ws://host:port)")
	moveCmd.Flags().StringVar(&moveFlags.hold, "hold", "none", "button to hold for the whole movement (none, left, right, middle)")
	moveCmd.Flags().DurationVar(&moveFlags.tickDelay, "tick-delay", 8*time.Millisecond, "pause between trajectory points")
	moveCmd.Flags().DurationVar(&moveFlags.stepDuration, "step-duration", 4*time.Millisecond, "duration of each cursor relocation")
	moveCmd.Flags().DurationVar(&moveFlags.timeout, "timeout", 60*time.Second, "overall deadline for the movement")
	_ = moveCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(moveCmd)
}
