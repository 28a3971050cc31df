package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jpavonabian/AMRadio-Addon/internal/addon"
	"github.com/jpavonabian/AMRadio-Addon/internal/clock"
	"github.com/jpavonabian/AMRadio-Addon/internal/config"
	"github.com/jpavonabian/AMRadio-Addon/internal/database"
	"github.com/jpavonabian/AMRadio-Addon/internal/qrz"
	"github.com/jpavonabian/AMRadio-Addon/internal/radioid"
	"github.com/jpavonabian/AMRadio-Addon/internal/stream"
	"github.com/jpavonabian/AMRadio-Addon/internal/txtimer"
	"github.com/jpavonabian/AMRadio-Addon/internal/ui"
)

const (
	VERSION        = "1.0.0"
	DEFAULT_CONFIG = "amradio.ini"
)

// flags for the component loggers, Debug adds file:line
var logFlags = log.LstdFlags

func main() {
	var (
		configFile = flag.String("config", DEFAULT_CONFIG, "Configuration file path")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] [command [args]]\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Without a command, commands are read from standard input.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("AM Radio add-on v%s\n", VERSION)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logOut, closeLog, err := openLog(cfg)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closeLog()
	log.SetOutput(logOut)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if cfg.GetLogDebug() {
		logFlags |= log.Lshortfile
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	var input <-chan string
	interactive := flag.NArg() == 0
	if interactive {
		input = ui.ReadLines(os.Stdin)
	} else {
		input = oneShot(strings.Join(flag.Args(), " "))
	}

	if err := run(ctx, cancel, cfg, input, logOut, interactive); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Add-on error: %v", err)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, input <-chan string, logOut io.Writer, interactive bool) error {
	console := ui.NewConsole(os.Stdout, input)
	dispatcher := ui.NewDispatcher(32)

	timerSvc := txtimer.New(txtimer.Config{
		Warning:          cfg.GetTimerWarning(),
		Duration:         cfg.GetTimerDuration(),
		WarningFrequency: cfg.GetTimerWarningFrequency(),
		ExpiryFrequency:  cfg.GetTimerExpiryFrequency(),
		ToneDuration:     cfg.GetTimerToneDuration(),
	}, &txtimer.BellBeeper{
		Out:    os.Stdout,
		Logger: log.New(logOut, "[TONE] ", logFlags),
	}, log.New(logOut, "[TIMER] ", logFlags))

	directory := qrz.NewClient(qrz.Config{
		URLTemplate: cfg.GetDirectoryURL(),
		Timeout:     cfg.GetDirectoryTimeout(),
		UserAgent:   cfg.GetDirectoryUserAgent(),
	}, log.New(logOut, "[QRZ] ", logFlags))

	deps := addon.Deps{
		Context:    ctx,
		Dispatcher: dispatcher,
		Speaker:    console,
		Prompter:   console,
		Presenter:  ui.NewPresenter(console, console),
		Directory:  directory,
		Timer:      timerSvc,
		TimerLabel: timerLabel(cfg),
		Announcer:  clock.NewAnnouncer(console, nil),
		Opener:     stream.BrowserOpener{},
		StreamURL:  cfg.GetStreamURL(),
		Logger:     log.New(logOut, "[ADDON] ", logFlags),
	}

	if cfg.GetDatabaseEnabled() {
		db, err := database.NewDB(database.Config{Path: cfg.GetDatabasePath()}, log.New(logOut, "[DB] ", logFlags))
		if err != nil {
			log.Printf("Failed to initialize DMR ID database: %v", err)
		} else {
			defer db.Close()
			repo := db.Operators()
			syncer := radioid.NewSyncer(repo, log.New(logOut, "[SYNC] ", logFlags), radioid.SyncerConfig{
				URL:          cfg.GetDatabaseSyncURL(),
				SyncInterval: cfg.GetDatabaseSyncInterval(),
			})
			deps.Operators = repo
			deps.Syncer = syncer

			if interactive && cfg.GetDatabaseSyncInterval() > 0 {
				go syncer.Start(ctx)
			}
		}
	}

	plugin := addon.New(deps)

	if interactive {
		log.Printf("AM Radio add-on v%s ready", VERSION)
		console.Speak("AM Radio add-on ready. Type help for the list of commands.")
	}

	err := dispatcher.Run(ctx, input, func(line string) {
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "quit", "exit":
			cancel()
			return
		}
		plugin.Invoke(line)
	})
	if err != nil {
		return err
	}

	// input ended while a countdown is running: let it finish
	if timerSvc.Armed() {
		log.Printf("Waiting for the running timer to finish")
		done := make(chan struct{})
		go func() {
			timerSvc.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return nil
}

// loadConfig reads file. The default file is optional; a named one is not.
func loadConfig(file string) (*config.Config, error) {
	cfg := config.NewConfig(file)
	err := cfg.Load()
	if err != nil && file == DEFAULT_CONFIG && errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	return cfg, err
}

func openLog(cfg *config.Config) (io.Writer, func(), error) {
	path := cfg.GetLogFilePath()
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func timerLabel(cfg *config.Config) string {
	d := cfg.GetTimerDuration()
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d-minute", int(d.Minutes()))
	}
	return fmt.Sprintf("%d-second", int(d.Seconds()))
}

// oneShot feeds a single command line and then closes
func oneShot(line string) <-chan string {
	ch := make(chan string, 1)
	ch <- line
	close(ch)
	return ch
}
