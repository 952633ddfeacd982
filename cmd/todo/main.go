package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/app"
	"github.com/nhle/todo-client/internal/credential"
	"github.com/nhle/todo-client/internal/filter"
	"github.com/nhle/todo-client/internal/logging"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/notify"
	"github.com/nhle/todo-client/internal/printer"
	"github.com/nhle/todo-client/internal/state"
	"github.com/nhle/todo-client/internal/store"
)

type options struct {
	configPath string
	printOnly  bool
	setToken   bool
	completed  bool
	pending    bool
	priority   string
	category   string
	search     string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "todo: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "path to the config file")
	fs.String("api-url", "", "API root, e.g. http://localhost:5000/api")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.printOnly, "print", false, "print the filtered todos and exit")
	fs.BoolVar(&opts.setToken, "set-token", false, "read an API token from stdin and store it in the keyring")
	fs.BoolVar(&opts.completed, "completed", false, "with --print: only completed todos")
	fs.BoolVar(&opts.pending, "pending", false, "with --print: only pending todos")
	fs.StringVar(&opts.priority, "priority", "", "with --print: only todos of this priority")
	fs.StringVar(&opts.category, "category", "", "with --print: only todos in this category")
	fs.StringVar(&opts.search, "search", "", "with --print: only todos matching this text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := model.NewViper()
	if f := fs.Lookup("api-url"); f.Changed {
		if err := v.BindPFlag("api.base_url", f); err != nil {
			return err
		}
	}
	if f := fs.Lookup("log-level"); f.Changed {
		if err := v.BindPFlag("log.level", f); err != nil {
			return err
		}
	}

	firstLaunch := false
	if _, err := os.Stat(opts.configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := model.LoadConfigWith(v, opts.configPath)
	if err != nil {
		return err
	}
	if firstLaunch {
		if err := model.SaveConfig(opts.configPath, cfg); err != nil {
			return err
		}
	}

	closer, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	if opts.setToken {
		return storeToken()
	}

	client := newClient(cfg)

	ledger, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	composer := printer.New(cfg.Print.Title, cfg.Print.Dir, printer.WithRecorder(ledger))

	if opts.printOnly {
		return printTodos(client, cfg, composer, opts)
	}

	notifier := notify.NewDesktopNotifier()
	if d, ok := notifier.(*notify.DesktopNotifier); ok {
		defer d.Close()
	}

	m := app.New(app.Deps{
		Backend:  client,
		Ledger:   ledger,
		Notifier: notifier,
		Printer:  composer,
		Config:   cfg,
	})

	log.WithField("api", client.BaseURL()).Info("starting todo client")
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// newClient builds the API client, attaching the keyring token if one is
// stored.
func newClient(cfg *model.AppConfig) *api.Client {
	token, err := credential.APIToken()
	if err != nil {
		log.WithError(err).Warn("reading API token, continuing without one")
	}

	clientOpts := []api.Option{api.WithRateLimit(cfg.API.RatePerSec, cfg.API.Burst)}
	if token != "" {
		clientOpts = append(clientOpts, api.WithToken(token))
	}
	if cfg.API.TimeoutSec > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(time.Duration(cfg.API.TimeoutSec)*time.Second))
	}
	return api.NewClient(cfg.API.BaseURL, clientOpts...)
}

// storeToken reads one line from stdin and saves it as the API token. An
// empty line removes the stored token.
func storeToken() error {
	fmt.Fprint(os.Stderr, "API token: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return credential.Delete(credential.APITokenKey)
	}
	return credential.Set(credential.APITokenKey, token)
}

// printTodos provisions the user, loads the todos matching the filter flags
// and opens the print document.
func printTodos(client *api.Client, cfg *model.AppConfig, composer *printer.Composer, opts options) error {
	ctx := context.Background()

	f, err := filtersFromOptions(opts)
	if err != nil {
		return err
	}

	s := state.New()
	u, err := app.ProvisionUser(ctx, client, cfg.User)
	if err != nil {
		log.WithError(err).Warn("provisioning user, printing unscoped todos")
	} else {
		s.SetUser(u)
	}
	s.SetFilters(f)

	if err := filter.New(s, client).ApplyFilters(ctx); err != nil {
		return fmt.Errorf("loading todos: %s", api.ServerMessage(err))
	}

	job, err := composer.Print(ctx, s.Todos(), s.Filters())
	var envErr *printer.EnvironmentError
	if errors.As(err, &envErr) {
		fmt.Printf("could not open a viewer; document saved to %s\n", envErr.Path)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("printed %d todos to %s\n", job.TodoCount, job.Path)
	return nil
}

func filtersFromOptions(opts options) (model.FilterSet, error) {
	var f model.FilterSet
	switch {
	case opts.completed && opts.pending:
		return f, errors.New("--completed and --pending are mutually exclusive")
	case opts.completed:
		f.Completion = model.CompletionCompleted
	case opts.pending:
		f.Completion = model.CompletionPending
	}
	if opts.priority != "" {
		p, ok := model.ParsePriority(opts.priority)
		if !ok {
			return f, fmt.Errorf("unknown priority %q", opts.priority)
		}
		f.Priority = p
	}
	f.Category = opts.category
	f.Search = opts.search
	return f, nil
}
