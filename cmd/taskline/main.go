package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pix-xip/go-command"

	"github.com/pix-xip/taskline/internal/app"
	"github.com/pix-xip/taskline/internal/config"
	"github.com/pix-xip/taskline/internal/devserver"
	"github.com/pix-xip/taskline/internal/notify"
	"github.com/pix-xip/taskline/internal/rest"
	"github.com/pix-xip/taskline/internal/task"
	"github.com/pix-xip/taskline/internal/tui"
)

var Version string

func main() {
	r := command.Root().Help("Taskline is a terminal task list backed by a REST task store").
		Flags(func(f *flag.FlagSet) {
			f.String("c", "taskline.lua", "path to config file")
			f.String("base-url", "", "task store base URL (overrides config)")
			f.String("log-level", "", "set the log level [debug|info|warn|error]")
			f.String("log-format", "", "set the log format [json|text]")
			f.String("addr", ":8383", "dev server listen address (serve)")

			f.Bool("notify", false, "desktop notification when a task completes")
			f.Bool("quiet", false, "disable all output")
			f.Bool("debug", false, "enable debug mode")
		})

	r.Action(Start)

	r.SubCommand("version").Help("Prints the version").
		Action(func(ctx context.Context, fs *flag.FlagSet, args []string) error {
			fmt.Println("Taskline version", Version)
			return nil
		})

	if err := r.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type settings struct {
	cfg     config.Config
	baseURL string
	quiet   bool
}

func makeSettings(fs *flag.FlagSet) (settings, error) {
	cfg, err := config.Load(command.Lookup[string](fs, "c"))
	if err != nil {
		return settings{}, err
	}

	if v := command.Lookup[string](fs, "log-level"); v != "" {
		cfg.Log.Level = v
	}

	if v := command.Lookup[string](fs, "log-format"); v != "" {
		cfg.Log.Format = v
	}

	if command.Lookup[bool](fs, "notify") {
		cfg.Notify = true
	}

	base := cfg.API.Base
	if v := command.Lookup[string](fs, "base-url"); v != "" {
		base = v
	}

	s := settings{
		cfg:     cfg,
		baseURL: base,
		quiet:   command.Lookup[bool](fs, "quiet"),
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return settings{}, fmt.Errorf("invalid log level: %w", err)
	}

	if command.Lookup[bool](fs, "debug") {
		level = log.DebugLevel
	}

	var format log.Formatter

	switch cfg.Log.Format {
	case "json":
		format = log.JSONFormatter
	case "text":
		format = log.TextFormatter
	default:
		return settings{}, fmt.Errorf("invalid log format: %s", cfg.Log.Format)
	}

	if s.quiet {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
		log.SetLevel(level)
		log.SetFormatter(format)
		log.SetTimeFormat(time.Kitchen)
	}

	return s, nil
}

func Start(ctx context.Context, fs *flag.FlagSet, args []string) error {
	s, err := makeSettings(fs)
	if err != nil {
		return err
	}

	store := task.NewStore(rest.New(s.baseURL))

	if len(args) == 0 {
		return runTUI(ctx, s, store)
	}

	switch args[0] {
	case "list":
		tasks, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("list error: %w", err)
		}

		for _, t := range tasks {
			fmt.Printf("%4d  %s  %s\n", t.ID(), t.Timestamp().Local().Format("2006-01-02 15:04"), t.Description())
		}
	case "add":
		return addTask(ctx, store, args[1:])
	case "serve":
		addr := command.Lookup[string](fs, "addr")
		log.Info("dev task store listening", "addr", addr)

		return http.ListenAndServe(addr, devserver.New().Router())
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}

	return nil
}

// addTask creates one task from the remaining command-line words. A
// blank description is rejected before any remote call, the same rule
// the controller applies.
func addTask(ctx context.Context, store *task.Store, words []string) error {
	desc := strings.TrimSpace(strings.Join(words, " "))
	if desc == "" {
		return errors.New("missing task description")
	}

	t := task.New(desc)
	if err := store.Create(ctx, t); err != nil {
		return fmt.Errorf("add error: %w", err)
	}

	fmt.Printf("created task %d\n", t.ID())

	return nil
}

func runTUI(ctx context.Context, s settings, store *task.Store) error {
	board := tui.NewBoard()

	opts := app.Options{
		Store:  store,
		Screen: board,
		Toast:  board,
	}
	if s.cfg.Notify {
		opts.Notifier = notify.Default()
	}

	ctrl, err := app.New(ctx, opts)
	if err != nil {
		return err
	}

	defer ctrl.Close()

	return tui.Run(ctx, ctrl, board)
}
