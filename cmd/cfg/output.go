package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/ui"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printConfiguration(w io.Writer, c *model.Configuration) error {
	if jsonOutput {
		return printJSON(w, c)
	}
	fmt.Fprintf(w, "ID:          %s\n", ui.RenderAccent(fmt.Sprint(c.ID)))
	fmt.Fprintf(w, "Name:        %s\n", c.Name)
	if !c.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created At:  %s\n", c.CreatedAt.Local().Format(timeLayout))
	}
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated At:  %s\n", c.UpdatedAt.Local().Format(timeLayout))
	}
	if len(c.Assets) == 0 {
		fmt.Fprintln(w, ui.RenderMuted("No assets"))
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ASSET\tTYPE\tVALUE")
	for _, a := range c.Assets {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.AssetType, a.AssetValue)
	}
	return tw.Flush()
}

func printConfigurationList(w io.Writer, cfgs []*model.Configuration) error {
	if jsonOutput {
		return printJSON(w, cfgs)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tASSETS\tUPDATED")
	for _, c := range cfgs {
		name := c.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", c.ID, name, len(c.Assets), c.UpdatedAt.Local().Format(timeLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d configurations\n", len(cfgs))
	return err
}
