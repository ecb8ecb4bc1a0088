package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/server"
	"gtodo/internal/service"
	"gtodo/internal/store"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command: the to-do REST API backed by SQLite.
type ServeCmd struct {
	addr   string
	dbPath string
	noAuth bool
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run the to-do REST API" }
func (c *ServeCmd) Usage() string {
	return "gtodo serve [common flags] [--addr <addr>] [--db <path>] [--no-auth]"
}
func (c *ServeCmd) NeedsAuth() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.dbPath, "db", "", "")
	fs.BoolVar(&c.noAuth, "no-auth", false, "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.ServerAddr
	}
	dbPath := c.dbPath
	if dbPath == "" {
		dbPath = cfg.ServerDB
	}

	st, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	defer st.Close()

	var authn server.Authenticator = server.NoAuth{}
	if !c.noAuth {
		g, err := server.NewGoogleAuthenticator(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		authn = g
	}

	srv, err := server.NewServer(server.Config{
		Addr: addr,
		Repo: st,
		Auth: authn,
		Log:  cfg.Log,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(errOut, "listening on %s (db %s)\n", addr, dbPath)
	}
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
