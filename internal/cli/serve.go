package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"MorningRadar/internal/collector"
	"MorningRadar/internal/logging"
	"MorningRadar/internal/notifier"
	"MorningRadar/internal/scheduler"
	"MorningRadar/internal/web"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var mock bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard, the refresh schedule and the Telegram bot",
		Long: `Run the long-lived service:
  - refresh the score on the configured cron schedule
  - serve the dashboard, JSON API and Prometheus metrics
  - push the morning report and answer /score, /refresh, /help on Telegram`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			log := logging.New(cfg.Log.Level, cfg.Log.Format)
			log.WithField("version", Version).Info("MorningRadar starting")

			a, err := buildApp(cfg, log, mock)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var pusher scheduler.Pusher
			sched := scheduler.NewScheduler(ctx, a.board, nil, log)

			g, gctx := errgroup.WithContext(ctx)
			if cfg.Telegram.BotToken != "" {
				client := collector.NewHTTPClient(cfg.Proxy, 60*time.Second)
				bot, err := notifier.NewBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID, client, sched, log)
				if err != nil {
					return err
				}
				pusher = notifier.NewTelegramNotifier(bot, cfg.Telegram.ChatID, log)
				g.Go(func() error {
					bot.Start(gctx)
					return nil
				})
				log.Info("telegram polling started")
			}
			sched.Pusher = pusher

			if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.MorningCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			// first report right away so the dashboard is not empty
			go sched.RunNow()

			srv, err := web.NewServer(a.board, a.metrics, cfg.Web.RefreshSec, log)
			if err != nil {
				return err
			}
			g.Go(func() error { return srv.Run(gctx, cfg.Web.Listen) })

			err = g.Wait()
			log.Info("MorningRadar stopped")
			return err
		},
	}
	cmd.Flags().BoolVar(&mock, "mock", false, "Use fixed sample data instead of network sources")
	return cmd
}
