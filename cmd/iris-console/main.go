package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/root-ali/iris-console/auth"
	client "github.com/root-ali/iris-console/client/v1"
	"github.com/root-ali/iris-console/config"
	"github.com/root-ali/iris-console/session"
	"github.com/root-ali/iris-console/tlsconfig"
)

// These variables are populated via the Go linker.
var (
	version = "dev"
	commit  string
	branch  string
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "iris-console",
		Usage:                "Operator console for the Iris alerting platform",
		UsageText:            "iris-console [global options] command [command options]",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "URL of the Iris server, overrides the config file",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the console config file",
			},
			&cli.BoolFlag{
				Name:  "skip-verify",
				Usage: "skip https certificate verification",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			newLoginCmd(),
			newLogoutCmd(),
			newWhoamiCmd(),
			newAlertsCmd(),
			newUsersCmd(),
			newGroupsCmd(),
			newProvidersCmd(),
			newPingCmd(),
			newVersionCmd(),
		},
	}
}

func setup(ctx *cli.Context) error {
	conf, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if ctx.IsSet("url") {
		conf.URL = ctx.String("url")
	}
	if ctx.Bool("skip-verify") {
		conf.SkipVerify = true
	}

	logger := zap.NewNop().Sugar()
	if ctx.Bool("debug") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l.Sugar()
	}

	if err := os.MkdirAll(filepath.Dir(conf.SessionPath), 0700); err != nil {
		return errors.Wrap(err, "creating session directory")
	}
	store, err := session.NewBoltStore(conf.SessionPath, logger)
	if err != nil {
		return err
	}

	tlsConfig, err := tlsconfig.Create(conf.SSLCA, conf.SSLCert, conf.SSLKey, conf.SkipVerify)
	if err != nil {
		return err
	}
	cli, err := client.New(client.Config{
		URL:         conf.URL,
		Timeout:     time.Duration(conf.Timeout),
		Credentials: store,
		TLSConfig:   tlsConfig,
	})
	if err != nil {
		return err
	}

	ctx.App.Metadata["logger"] = logger
	ctx.App.Metadata["store"] = store
	ctx.App.Metadata["client"] = cli
	ctx.App.Metadata["guard"] = auth.NewGuard(store)
	return nil
}

func teardown(ctx *cli.Context) error {
	if store, ok := ctx.App.Metadata["store"].(*session.BoltStore); ok {
		return store.Close()
	}
	return nil
}

func getClient(ctx *cli.Context) *client.Client {
	c, ok := ctx.App.Metadata["client"].(*client.Client)
	if !ok {
		panic("missing API client")
	}
	return c
}

func getStore(ctx *cli.Context) *session.BoltStore {
	s, ok := ctx.App.Metadata["store"].(*session.BoltStore)
	if !ok {
		panic("missing session store")
	}
	return s
}

func getGuard(ctx *cli.Context) *auth.Guard {
	g, ok := ctx.App.Metadata["guard"].(*auth.Guard)
	if !ok {
		panic("missing guard")
	}
	return g
}

func getLogger(ctx *cli.Context) *zap.SugaredLogger {
	l, ok := ctx.App.Metadata["logger"].(*zap.SugaredLogger)
	if !ok {
		panic("missing logger")
	}
	return l
}

// guarded is run before every protected command. The check is evaluated
// fresh on each invocation, so an expired session is caught on the next
// command.
func guarded(requireAdmin bool) cli.BeforeFunc {
	return func(ctx *cli.Context) error {
		switch getGuard(ctx).Check(requireAdmin) {
		case auth.RedirectToLogin:
			return errors.New("not logged in: run 'iris-console login'")
		case auth.RedirectToUnauthorized:
			return errors.New("access denied: admin access required")
		}
		return nil
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{&cli.BoolFlag{
		Name:  "json",
		Usage: "Output data as JSON",
	}}
}

func newPingCmd() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server is alive and ready",
		Action: func(ctx *cli.Context) error {
			c := getClient(ctx)
			rtt, err := c.Ping(ctx.Context)
			if err != nil {
				return err
			}
			if err := c.Ready(ctx.Context); err != nil {
				return errors.Wrap(err, "server is alive but not ready")
			}
			fmt.Printf("OK %s %v\n", c.URL(), rtt)
			return nil
		},
	}
}

func newVersionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Displays the console version info",
		Action: func(ctx *cli.Context) error {
			fmt.Printf("iris-console %s (git: %s %s)\n", version, branch, commit)
			return nil
		},
	}
}
