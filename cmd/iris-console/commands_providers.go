package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func newProvidersCmd() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "Notification provider commands (admin only)",
		Subcommands: []*cli.Command{
			newProvidersListCmd(),
			newProvidersShowCmd(),
			newProvidersSetCmd(),
		},
	}
}

func newProvidersListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Usage:   "List notification providers",
		Aliases: []string{"ls"},
		Flags:   commonFlags(),
		Before:  guarded(true),
		Action: func(ctx *cli.Context) error {
			providers, err := getClient(ctx).ListProviders(ctx.Context)
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(providers)
			}
			w := newTabWriter()
			fmt.Fprintln(w, "NAME\tPRIORITY\tENABLED\tDESCRIPTION")
			for _, p := range providers {
				fmt.Fprintf(w, "%s\t%d\t%t\t%s\n", p.Name, p.Priority, p.Enabled, p.Description)
			}
			return w.Flush()
		},
	}
}

func newProvidersShowCmd() *cli.Command {
	flags := append(commonFlags(), &cli.BoolFlag{
		Name:  "id",
		Usage: "look the provider up by id instead of name",
	})
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one notification provider",
		ArgsUsage: "<name or id>",
		Flags:     flags,
		Before:    guarded(true),
		Action: func(ctx *cli.Context) error {
			identifier := ctx.Args().First()
			if identifier == "" {
				return errors.New("must supply a provider name or id")
			}
			p, err := getClient(ctx).Provider(ctx.Context, identifier, ctx.Bool("id"))
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(p)
			}
			w := newTabWriter()
			fmt.Fprintln(w, "NAME\tPRIORITY\tENABLED\tDESCRIPTION")
			fmt.Fprintf(w, "%s\t%d\t%t\t%s\n", p.Name, p.Priority, p.Enabled, p.Description)
			return w.Flush()
		},
	}
}

func newProvidersSetCmd() *cli.Command {
	var name string
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "provider name (required)",
			Destination: &name,
			Required:    true,
		},
		&cli.IntFlag{
			Name:  "priority",
			Usage: "new priority, 1 through 5",
		},
		&cli.BoolFlag{
			Name:  "enable",
			Usage: "enable the provider",
		},
		&cli.BoolFlag{
			Name:  "disable",
			Usage: "disable the provider",
		},
	}
	return &cli.Command{
		Name:   "set",
		Usage:  "Change a provider's priority or enabled state",
		Flags:  flags,
		Before: guarded(true),
		Action: func(ctx *cli.Context) error {
			if ctx.Bool("enable") && ctx.Bool("disable") {
				return errors.New("--enable and --disable are mutually exclusive")
			}
			var priority *int
			if ctx.IsSet("priority") {
				p := ctx.Int("priority")
				priority = &p
			}
			var enabled *bool
			if ctx.Bool("enable") {
				v := true
				enabled = &v
			} else if ctx.Bool("disable") {
				v := false
				enabled = &v
			}
			if priority == nil && enabled == nil {
				return errors.New("must supply --priority, --enable, or --disable")
			}
			if err := getClient(ctx).UpdateProvider(ctx.Context, name, priority, enabled); err != nil {
				return err
			}
			fmt.Printf("Updated provider %q\n", name)
			return nil
		},
	}
}
