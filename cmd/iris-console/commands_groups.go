package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	client "github.com/root-ali/iris-console/client/v1"
)

func newGroupsCmd() *cli.Command {
	return &cli.Command{
		Name:  "groups",
		Usage: "Notification group management commands (admin only)",
		Subcommands: []*cli.Command{
			newGroupsListCmd(),
			newGroupsShowCmd(),
			newGroupsCreateCmd(),
			newGroupsDeleteCmd(),
			newGroupsMembersCmd(),
			newGroupsAddMemberCmd(),
		},
	}
}

func newGroupsListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Usage:   "List groups",
		Aliases: []string{"ls"},
		Flags:   commonFlags(),
		Before:  guarded(true),
		Action: func(ctx *cli.Context) error {
			groups, err := getClient(ctx).ListGroups(ctx.Context)
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(groups)
			}
			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\n", g.GroupID, g.GroupName)
			}
			return w.Flush()
		},
	}
}

func newGroupsShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one group",
		ArgsUsage: "<group id>",
		Flags:     commonFlags(),
		Before:    guarded(true),
		Action: func(ctx *cli.Context) error {
			id := ctx.Args().First()
			if id == "" {
				return errors.New("must supply a group id")
			}
			g, err := getClient(ctx).Group(ctx.Context, id)
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(g)
			}
			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			fmt.Fprintf(w, "%s\t%s\t%s\n", g.ID, g.Name, g.Description)
			return w.Flush()
		},
	}
}

func newGroupsCreateCmd() *cli.Command {
	var name, description string
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "group name (required)",
			Destination: &name,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "description",
			Aliases:     []string{"d"},
			Destination: &description,
		},
	}
	return &cli.Command{
		Name:   "create",
		Usage:  "Create a group",
		Flags:  flags,
		Before: guarded(true),
		Action: func(ctx *cli.Context) error {
			if err := getClient(ctx).CreateGroup(ctx.Context, name, description); err != nil {
				return err
			}
			fmt.Printf("Created group %q\n", name)
			return nil
		},
	}
}

func newGroupsDeleteCmd() *cli.Command {
	var g client.Group
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "group id",
			Destination: &g.ID,
		},
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "group name",
			Destination: &g.Name,
		},
	}
	return &cli.Command{
		Name:   "delete",
		Usage:  "Delete a group",
		Flags:  flags,
		Before: guarded(true),
		Action: func(ctx *cli.Context) error {
			if g.ID == "" && g.Name == "" {
				return errors.New("must supply --id or --name")
			}
			if err := getClient(ctx).DeleteGroup(ctx.Context, g); err != nil {
				return err
			}
			fmt.Println("Deleted group")
			return nil
		},
	}
}

func newGroupsMembersCmd() *cli.Command {
	return &cli.Command{
		Name:      "members",
		Usage:     "List the ids of the users in a group",
		ArgsUsage: "<group id>",
		Flags:     commonFlags(),
		Before:    guarded(true),
		Action: func(ctx *cli.Context) error {
			id := ctx.Args().First()
			if id == "" {
				return errors.New("must supply a group id")
			}
			users, err := getClient(ctx).GroupUsers(ctx.Context, id)
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(users)
			}
			for _, u := range users {
				fmt.Println(u)
			}
			return nil
		},
	}
}

func newGroupsAddMemberCmd() *cli.Command {
	var groupID, userID string
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "group",
			Aliases:     []string{"g"},
			Usage:       "group id (required)",
			Destination: &groupID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "user id (required)",
			Destination: &userID,
			Required:    true,
		},
	}
	return &cli.Command{
		Name:   "add-member",
		Usage:  "Add a user to a group",
		Flags:  flags,
		Before: guarded(true),
		Action: func(ctx *cli.Context) error {
			if err := getClient(ctx).AddUserToGroup(ctx.Context, groupID, userID); err != nil {
				return err
			}
			fmt.Printf("Added user %s to group %s\n", userID, groupID)
			return nil
		},
	}
}
