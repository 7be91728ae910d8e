package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"luckylotto/internal/ads"
	"luckylotto/internal/animation"
	"luckylotto/internal/config"
	"luckylotto/internal/generator"
	"luckylotto/internal/handlers"
	"luckylotto/internal/metrics"
	"luckylotto/internal/middleware"
	"luckylotto/internal/models"
	"luckylotto/internal/services"
	"luckylotto/internal/share"
	"luckylotto/internal/tui"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:assets
var assetsFS embed.FS

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:          "luckylotto",
		Short:        "Today's lucky lotto numbers from your name and birthday",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newServeCmd(&configPath, &verbose),
		newGenerateCmd(&configPath),
		newTUICmd(&configPath),
	)
	return root
}

func newServeCmd(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Init("luckylotto", *verbose, false, io.Discard).Close()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func validatorFrom(cfg *config.Config) services.Validator {
	return services.Validator{
		MaxNameLength: cfg.Validation.MaxNameLength,
		MinBirthYear:  cfg.Validation.MinBirthYear,
	}
}

// controllerFactory builds fresh controllers on the configured calendar.
func controllerFactory(cfg *config.Config, opts ...services.ControllerOption) (services.ControllerFactory, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clock := services.NewCalendarClock(loc)
	validator := validatorFrom(cfg)
	return func() *services.Controller {
		return services.NewController(clock, validator, opts...)
	}, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	// 1. Initialize the session service; every visitor gets a fresh controller.
	factory, err := controllerFactory(cfg, services.WithTransitionHook(metrics.RecordTransition))
	if err != nil {
		return err
	}
	sessions := services.NewSessionService(factory)
	sessions.OnSweep = metrics.SetSessions

	// 2. Load HTML templates from the embedded filesystem.
	templates, err := handlers.ParseTemplates(templateFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	// 3. Initialize the HTTP Handler
	limiter := middleware.NewRateLimiter(cfg.Limits.SubmitRPS, cfg.Limits.SubmitBurst)
	limiter.OnLimited = func(*gin.Context) { metrics.RecordDraw(metrics.OutcomeRateLimited) }

	httpHandler := handlers.NewHTTPHandler(sessions, templates, handlers.Options{
		CookieName: cfg.Server.CookieName,
		BaseURL:    cfg.Server.BaseURL,
		Banners:    ads.FromConfig(cfg.Ads),
		Schedule:   animation.DefaultSchedule(),
		Limiter:    limiter,
	})

	// 4. Set up the Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// 5. Serve static files from the embedded filesystem.
	assetsSubFS, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return fmt.Errorf("assets sub-filesystem: %w", err)
	}
	r.StaticFS("/assets", http.FS(assetsSubFS))

	// 6. Register public routes (before middleware)
	httpHandler.RegisterPublicRoutes(r)

	// 7. Group routes that require a visitor session and apply middleware
	visitorRoutes := r.Group("/")
	visitorRoutes.Use(httpHandler.VisitorMiddleware())
	httpHandler.RegisterVisitorRoutes(visitorRoutes)

	// 8. Start the background janitor to clean up inactive sessions
	go sessions.RunJanitor(ctx, cfg.Server.JanitorInterval, cfg.Server.SessionTTL)
	go func() {
		ticker := time.NewTicker(cfg.Server.JanitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup(cfg.Server.SessionTTL)
			}
		}
	}()

	// 9. Run the server
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("run server: %w", err)
	case <-ctx.Done():
	}

	logger.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var name, birth, gender, date string
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print today's numbers for a name, birth date and gender",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Init("luckylotto", false, false, io.Discard).Close()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			now := time.Now().In(loc)
			if date != "" {
				if now, err = time.ParseInLocation(generator.DateLayout, date, loc); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}

			sub, err := validatorFrom(cfg).Validate(services.RawSubmission{Name: name, BirthDate: birth, Gender: gender}, now)
			if err != nil {
				return err
			}

			today := generator.DateKey(now)
			numbers := generator.Generate(sub.Name, sub.BirthDate, sub.Gender, today)
			out := cmd.OutOrStdout()
			printNumbers(out, today, numbers)

			text := share.Text(sub.Name, numbers)
			fmt.Fprintf(out, "\n%s\n", text)

			if copyToClipboard {
				n := share.Notify(share.SystemClipboard{}, share.CopyPayload(text, cfg.Server.BaseURL))
				if n.Failed {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s %s\n", n.Title, n.Description)
				} else {
					fmt.Fprintf(out, "%s %s\n", n.Title, n.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name")
	cmd.Flags().StringVar(&birth, "birth", "", "birth date, YYYY-MM-DD or YYYYMMDD")
	cmd.Flags().StringVar(&gender, "gender", "", "male or female")
	cmd.Flags().StringVar(&date, "date", "", "day to draw for, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the share text to the clipboard")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("birth")
	_ = cmd.MarkFlagRequired("gender")
	return cmd
}

func printNumbers(w io.Writer, today string, numbers models.NumberSet) {
	mains := make([]string, 0, models.MainCount)
	for _, n := range numbers.Main() {
		mains = append(mains, strconv.Itoa(n))
	}
	fmt.Fprintf(w, "%s\n", today)
	fmt.Fprintf(w, "main: %s  bonus: %d\n", strings.Join(mains, " "), numbers.Bonus())
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Draw today's numbers in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Init("luckylotto", false, false, io.Discard).Close()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			factory, err := controllerFactory(cfg)
			if err != nil {
				return err
			}

			m := tui.New(factory(), tui.Options{
				BaseURL: cfg.Server.BaseURL,
				Copier:  share.SystemClipboard{},
			})
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
