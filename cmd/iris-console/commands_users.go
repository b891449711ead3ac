package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	client "github.com/root-ali/iris-console/client/v1"
)

func newUsersCmd() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User management commands (admin only)",
		Subcommands: []*cli.Command{
			newUsersListCmd(),
			newUsersAddCmd(),
			newUsersUpdateCmd(),
			newUsersDeleteCmd(),
			newUsersVerifyCmd(),
		},
	}
}

func newUsersListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Usage:   "List users",
		Aliases: []string{"ls"},
		Flags:   commonFlags(),
		Before:  guarded(true),
		Action: func(ctx *cli.Context) error {
			users, err := getClient(ctx).ListUsers(ctx.Context)
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(users)
			}
			w := newTabWriter()
			fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL\tMOBILE\tSTATUS")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n",
					u.Username, u.FirstName, u.LastName, u.Email, u.Mobile, u.Status)
			}
			return w.Flush()
		},
	}
}

func newUsersAddCmd() *cli.Command {
	var u client.CreateUser
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "username",
			Aliases:     []string{"u"},
			Usage:       "username (required)",
			Destination: &u.Username,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "first-name",
			Destination: &u.FirstName,
		},
		&cli.StringFlag{
			Name:        "last-name",
			Destination: &u.LastName,
		},
		&cli.StringFlag{
			Name:        "email",
			Destination: &u.Email,
		},
		&cli.StringFlag{
			Name:        "mobile",
			Destination: &u.Mobile,
		},
	}
	return &cli.Command{
		Name:   "add",
		Usage:  "Create a user; the password is prompted",
		Flags:  flags,
		Before: guarded(true),
		Action: func(ctx *cli.Context) error {
			password, err := promptSecret("Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptSecret("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}
			u.Password = password
			u.ConfirmPassword = confirm
			if err := getClient(ctx).AddUser(ctx.Context, u); err != nil {
				return err
			}
			fmt.Printf("Created user %q\n", u.Username)
			return nil
		},
	}
}

func newUsersUpdateCmd() *cli.Command {
	var u client.UpdateUser
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "username",
			Aliases:     []string{"u"},
			Usage:       "username selecting the user (required)",
			Destination: &u.Username,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "first-name",
			Destination: &u.FirstName,
		},
		&cli.StringFlag{
			Name:        "last-name",
			Destination: &u.LastName,
		},
		&cli.StringFlag{
			Name:        "email",
			Destination: &u.Email,
		},
		&cli.StringFlag{
			Name:        "mobile",
			Destination: &u.Mobile,
		},
		&cli.BoolFlag{
			Name:  "password",
			Usage: "prompt for a new password",
		},
	}
	return &cli.Command{
		Name:   "update",
		Usage:  "Update the given fields of a user",
		Flags:  flags,
		Before: guarded(true),
		Action: func(ctx *cli.Context) error {
			if ctx.Bool("password") {
				password, err := promptSecret("New password: ")
				if err != nil {
					return err
				}
				u.Password = password
			}
			if err := getClient(ctx).UpdateUser(ctx.Context, u); err != nil {
				return err
			}
			fmt.Printf("Updated user %q\n", u.Username)
			return nil
		},
	}
}

func newUsersDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a user",
		ArgsUsage: "<username>",
		Before:    guarded(true),
		Action: func(ctx *cli.Context) error {
			username := ctx.Args().First()
			if username == "" {
				return errors.New("must supply a username")
			}
			if err := getClient(ctx).DeleteUser(ctx.Context, username); err != nil {
				return err
			}
			fmt.Printf("Deleted user %q\n", username)
			return nil
		},
	}
}

func newUsersVerifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Mark a pending user as verified",
		ArgsUsage: "<username>",
		Before:    guarded(true),
		Action: func(ctx *cli.Context) error {
			username := ctx.Args().First()
			if username == "" {
				return errors.New("must supply a username")
			}
			if err := getClient(ctx).VerifyUser(ctx.Context, username); err != nil {
				return err
			}
			fmt.Printf("Verified user %q\n", username)
			return nil
		},
	}
}
