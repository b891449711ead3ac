package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/root-ali/iris-console/auth"
	"github.com/root-ali/iris-console/login"
)

func newLoginCmd() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in to the server and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "username to sign in as",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "attempts",
				Usage: "how many failed attempts before giving up",
				Value: 3,
			},
		},
		Action: func(ctx *cli.Context) error {
			flow := login.NewFlow(
				getClient(ctx),
				getStore(ctx),
				[]auth.Role{auth.AdminRole},
				getLogger(ctx),
			)
			signedIn, err := flow.Start(ctx.Context)
			if err != nil {
				return err
			}
			if signedIn {
				fmt.Println("Already signed in.")
				return nil
			}

			for attempt := 0; attempt < ctx.Int("attempts"); attempt++ {
				path, err := writeCaptchaImage(flow.Challenge())
				if err != nil {
					return errors.Wrap(err, "writing captcha image")
				}
				fmt.Printf("Captcha image written to %s\n", path)

				password, err := promptSecret("Password: ")
				if err != nil {
					return err
				}
				answer, err := promptLine("Captcha answer: ")
				if err != nil {
					return err
				}

				err = flow.Submit(ctx.Context, ctx.String("username"), password, answer)
				if err == nil {
					fmt.Println("Login successful.")
					return nil
				}
				if errors.Is(err, login.ErrPolicyDenied) {
					// Retrying will not change the role.
					return err
				}
				fmt.Fprintln(os.Stderr, "Login failed:", err)
			}
			return errors.New("too many failed attempts")
		},
	}
}

func newLogoutCmd() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Discard the stored session",
		Action: func(ctx *cli.Context) error {
			if err := getStore(ctx).Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the user the current session belongs to",
		Flags:  commonFlags(),
		Before: guarded(false),
		Action: func(ctx *cli.Context) error {
			u, err := getClient(ctx).Me(ctx.Context)
			if err != nil {
				return err
			}
			if ctx.Bool("json") {
				return printJSON(u)
			}
			w := newTabWriter()
			fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL\tMOBILE")
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", u.Username, u.FirstName, u.LastName, u.Email, u.Mobile)
			return w.Flush()
		},
	}
}
