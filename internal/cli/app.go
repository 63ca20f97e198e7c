// Package cli implements deskctl, the operator's command line client for
// the shop API.
package cli

import (
	"errors"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

const defaultBaseURL = "http://localhost:3000/api"

type env struct {
	state *State
	out   printer
}

// NewApp builds the deskctl application writing to out.
func NewApp(out io.Writer) *cli.App {
	e := &env{}
	return &cli.App{
		Name:                 "deskctl",
		Usage:                "manage the shop's catalog, customers, orders and stock",
		Writer:               out,
		ErrWriter:            out,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "state",
				Usage:   "path of the state file",
				EnvVars: []string{"DESKCTL_STATE"},
				Value:   DefaultStatePath(),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "shop API base URL (defaults to the one saved at login)",
				EnvVars: []string{"API_BASE_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "shop API request timeout",
				Value: shopapi.DefaultTimeout,
			},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of tables"},
		},
		Before: func(c *cli.Context) error {
			st, err := LoadState(c.String("state"))
			if err != nil {
				return err
			}
			e.state = st
			e.out = printer{w: c.App.Writer, json: c.Bool("json")}
			return nil
		},
		Commands: []*cli.Command{
			e.loginCommand(),
			e.logoutCommand(),
			e.themeCommand(),
			e.productsCommand(),
			e.variantsCommand(),
			e.customersCommand(),
			e.ordersCommand(),
			e.orderCommand(),
			e.stockCommand(),
			e.dashboardCommand(),
		},
	}
}

var errNotLoggedIn = errors.New("not logged in: run deskctl login --token <token>")

func (e *env) baseURL(c *cli.Context) string {
	if u := c.String("base-url"); u != "" {
		return u
	}
	if u := e.state.BaseURL(); u != "" {
		return u
	}
	return defaultBaseURL
}

// client returns a shop API client carrying the saved token.
func (e *env) client(c *cli.Context) (*shopapi.Client, error) {
	token := e.state.Token()
	if token == "" {
		return nil, errNotLoggedIn
	}
	timeout := c.Duration("timeout")
	if timeout <= 0 {
		timeout = shopapi.DefaultTimeout
	}
	return shopapi.New(shopapi.Config{
		BaseURL:   e.baseURL(c),
		Token:     token,
		Timeout:   timeout,
		UserAgent: "deskctl/1.0",
	}), nil
}

// describe turns a shop API failure into the message shown to the
// operator.
func describe(err error) error {
	if shopapi.IsNetwork(err) {
		return errors.New("cannot reach the shop API, check the base URL and your connection")
	}
	if apiErr, ok := shopapi.AsAPIError(err); ok {
		return errors.New(apiErr.Message)
	}
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
