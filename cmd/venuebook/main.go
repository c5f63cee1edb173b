package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/naveenspark/venuebook/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var (
	version = "dev"
	cli     struct {
		Config  string `help:"Path to config.yaml." type:"path" env:"VENUEBOOK_CONFIG"`
		Debug   bool   `help:"Enable debug logging."`
		Version kong.VersionFlag

		TUI       TUICmd       `cmd:"" name:"tui" default:"1" help:"Open the interactive client (default)."`
		Login     LoginCmd     `cmd:"" help:"Sign in and store the session."`
		Logout    LogoutCmd    `cmd:"" help:"Sign out and clear the stored session."`
		Whoami    WhoamiCmd    `cmd:"" help:"Show the signed-in user."`
		Export    ExportCmd    `cmd:"" help:"Export a list to an .xlsx workbook."`
		Devserver DevserverCmd `cmd:"" help:"Run the in-memory mock backend."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("venuebook"),
		kong.Description("Venue and equipment booking client."),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	if err := cmd.Run(&Globals{Config: cli.Config, Debug: cli.Debug, Version: version}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", client.UserMessage(err))
		os.Exit(1)
	}
}
