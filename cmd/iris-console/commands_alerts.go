package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	client "github.com/root-ali/iris-console/client/v1"
)

func newAlertsCmd() *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Alert information commands",
		Subcommands: []*cli.Command{
			newAlertsListCmd(),
			newAlertsFiringCountCmd(),
		},
	}
}

func newAlertsListCmd() *cli.Command {
	var opts client.ListAlertsOptions
	flags := append(commonFlags(), []cli.Flag{
		&cli.StringFlag{
			Name:        "status",
			Usage:       "filter by status (firing|resolved)",
			Destination: &opts.Status,
		},
		&cli.StringFlag{
			Name:        "severity",
			Usage:       "filter by severity",
			Destination: &opts.Severity,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "the number of alerts per page",
			Destination: &opts.Limit,
			Value:       10,
		},
		&cli.IntFlag{
			Name:        "page",
			Usage:       "page number",
			Destination: &opts.Page,
			Value:       1,
		},
	}...)
	return &cli.Command{
		Name:    "list",
		Usage:   "List alerts",
		Aliases: []string{"ls"},
		Flags:   flags,
		Before:  guarded(false),
		Action: func(ctx *cli.Context) error {
			alerts, err := getClient(ctx).ListAlerts(ctx.Context, opts)
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(alerts)
			}
			w := newTabWriter()
			fmt.Fprintln(w, "NAME\tSEVERITY\tSTATUS\tSTARTED\tDESCRIPTION")
			for _, a := range alerts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					a.Name, a.Severity, a.Status,
					a.StartsAt.Format(time.RFC3339), a.Description)
			}
			return w.Flush()
		},
	}
}

func newAlertsFiringCountCmd() *cli.Command {
	return &cli.Command{
		Name:   "firing-count",
		Usage:  "Show the number of firing alerts per severity",
		Flags:  commonFlags(),
		Before: guarded(false),
		Action: func(ctx *cli.Context) error {
			counts, err := getClient(ctx).FiringCount(ctx.Context)
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(counts)
			}
			w := newTabWriter()
			fmt.Fprintln(w, "SEVERITY\tCOUNT")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%d\n", c.Severity, c.Count)
			}
			return w.Flush()
		},
	}
}
