package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

func (e *env) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "save the shop API token (and base URL) for later commands",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Usage: "bearer token issued by the shop API", Required: true},
		},
		Action: func(c *cli.Context) error {
			token := strings.TrimSpace(c.String("token"))
			if token == "" {
				return fmt.Errorf("token cannot be empty")
			}
			e.state.SetToken(token)
			if u := c.String("base-url"); u != "" {
				e.state.SetBaseURL(u)
			}
			if err := e.state.Save(); err != nil {
				return err
			}
			e.out.line("Logged in to %s", e.baseURL(c))
			return nil
		},
	}
}

func (e *env) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the saved token",
		Action: func(c *cli.Context) error {
			e.state.SetToken("")
			if err := e.state.Save(); err != nil {
				return err
			}
			e.out.line("Logged out")
			return nil
		},
	}
}

func (e *env) themeCommand() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "show or set the theme flag",
		ArgsUsage: "[light|dark]",
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				e.out.line("%s", e.state.Theme())
				return nil
			}
			if err := e.state.SetTheme(strings.ToLower(c.Args().First())); err != nil {
				return err
			}
			if err := e.state.Save(); err != nil {
				return err
			}
			e.out.line("Theme set to %s", e.state.Theme())
			return nil
		},
	}
}
