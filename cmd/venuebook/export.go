package main

import (
	"context"
	"fmt"
	"os"

	"github.com/naveenspark/venuebook/internal/browser"
	"github.com/naveenspark/venuebook/internal/export"
	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

// exportPageSize is large enough to pull a whole list in one page.
const exportPageSize = 1000

type ExportCmd struct {
	Resource string `arg:"" enum:"applications,my-applications,venues,materials,users" help:"List to export (${enum})."`
	Out      string `help:"Output file. Defaults to <resource>.xlsx." short:"o" type:"path"`
	Status   string `help:"Only applications with this status."`
	Open     bool   `help:"Open the workbook when done."`
}

func (e *ExportCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := globals.open(os.Stderr, true)
	if err != nil {
		return err
	}

	rows, columns, err := fetchRows(ctx, rt.client, e.Resource, e.Status)
	if err != nil {
		return fmt.Errorf("export %s: %w", e.Resource, err)
	}

	out := e.Out
	if out == "" {
		out = e.Resource + ".xlsx"
	}
	path, err := export.WriteFile(out, rows, columns)
	if err != nil {
		return fmt.Errorf("export %s: %w", e.Resource, err)
	}
	rt.log.Debug().Str("resource", e.Resource).Str("path", path).Msg("exported")
	fmt.Printf("Exported %s to %s\n", e.Resource, path)

	if e.Open {
		if err := browser.Open(path); err != nil {
			return err
		}
	}
	return nil
}

// fetchRows loads one exportable list. A nil column set means the columns
// are taken from the rows themselves.
func fetchRows(ctx context.Context, c *client.Client, resource, status string) (any, []export.Column, error) {
	filter := client.ApplicationFilter{Status: status, PageSize: exportPageSize}
	switch resource {
	case "applications":
		rows, err := c.ListApplications(ctx, filter)
		return rows, export.ApplicationColumns, err
	case "my-applications":
		rows, err := c.MyApplications(ctx, filter)
		return rows, export.ApplicationColumns, err
	case "venues":
		rows, err := c.ListVenues(ctx, "")
		return rows, nil, err
	case "materials":
		rows, err := c.ListMaterials(ctx, "")
		return rows, nil, err
	case "users":
		rows, err := c.ListUsers(ctx, domain.Role(""))
		return rows, export.UserColumns, err
	default:
		return nil, nil, fmt.Errorf("unknown resource %q", resource)
	}
}
