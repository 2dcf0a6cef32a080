package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordgraph/internal/cli"
	"github.com/bastiangx/wordgraph/internal/logger"
	"github.com/bastiangx/wordgraph/internal/utils"
	"github.com/bastiangx/wordgraph/pkg/config"
	"github.com/bastiangx/wordgraph/pkg/dictionary"
	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/bastiangx/wordgraph/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugMode  bool
	seedPaths  []string
	listenAddr string

	// set in PersistentPreRunE
	appConfig  *config.Config
	loadedPath string

	rootCmd = &cobra.Command{
		Use:           AppName,
		Short:         "Learns from what you type and suggests, predicts and relates words",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetDebug(debugMode)
			appConfig, loadedPath = config.LoadConfigWithPriority(configPath)
			return nil
		},
		RunE: runChat,
	}

	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Chat with the engine in the terminal (default)",
		RunE:  runChat,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		RunE:  runServe,
	}

	ipcCmd = &cobra.Command{
		Use:   "ipc",
		Short: "Serve MessagePack requests on stdin/stdout",
		RunE:  runIPC,
	}

	versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print version info",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			showVersion()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Toggle debug mode")
	rootCmd.PersistentFlags().StringSliceVar(&seedPaths, "seed", nil, "corpus files or directories to ingest before starting")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides server.addr)")

	rootCmd.AddCommand(chatCmd, serveCmd, ipcCmd, versionCmd)
}

// newEngine builds the engine and ingests the seed corpus, if any.
func newEngine() (*engine.Engine, error) {
	eng := engine.New(
		engine.WithTopWords(appConfig.Engine.TopWords),
		engine.WithLogger(logger.New("engine")),
	)
	if len(seedPaths) == 0 {
		return eng, nil
	}

	loader := dictionary.NewLoader(eng, logger.New("loader"))
	stats, err := loader.Load(seedPaths...)
	if err != nil {
		return nil, fmt.Errorf("seed corpus: %w", err)
	}
	log.Info("Seeded engine",
		"files", stats.Files,
		"sentences", utils.FormatWithCommas(stats.Sentences),
		"skipped", len(stats.Skipped))
	return eng, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	sigHandler()
	log.SetReportTimestamp(false)

	eng, err := newEngine()
	if err != nil {
		return err
	}
	handler := cli.NewInputHandler(eng, os.Stdin, os.Stdout, appConfig.CLI)
	if err := handler.Start(); err != nil {
		log.Errorf("CLI error: %v", err)
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if listenAddr != "" {
		appConfig.Server.Addr = listenAddr
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}

	srv := server.NewHTTPServer(eng, appConfig, server.NewMetrics(eng), logger.New("server"))
	watchConfig(ctx, srv.UpdateConfig)
	showStartupInfo("http", appConfig.Server.Addr)

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Errorf("HTTP server: %v", err)
		return err
	}
	return nil
}

func runIPC(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := newEngine()
	if err != nil {
		return err
	}

	srv := server.NewIPCServer(eng, appConfig, os.Stdin, os.Stdout, nil, logger.New("ipc"))
	watchConfig(ctx, srv.UpdateConfig)

	if err := srv.Serve(ctx); err != nil {
		log.Errorf("IPC server: %v", err)
		return err
	}
	return nil
}

// watchConfig applies config file changes until ctx is done. The listen
// address stays whatever the server started with.
func watchConfig(ctx context.Context, apply func(*config.Config)) {
	if loadedPath == "" {
		log.Debug("No config file to watch")
		return
	}
	addr := appConfig.Server.Addr
	go func() {
		err := config.Watch(ctx, loadedPath, func(cfg *config.Config) {
			cfg.Server.Addr = addr
			apply(cfg)
		})
		if err != nil {
			log.Warnf("Config watch stopped: %v", err)
		}
	}()
}

// showStartupInfo displays some basic info about the server on stderr.
func showStartupInfo(mode, addr string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " wordgraph ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("mode: %s", mode)
	log.Infof("addr: ( %s )", addr)
	if loadedPath != "" {
		log.Infof("config: ( %s )", loadedPath)
	}
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}

func showVersion() {
	l := logger.NewWithConfig(os.Stderr, "", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ wordgraph ] learns words as you chat")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available commands")
	l.Print("Github Repo", "gh", gh)
}
