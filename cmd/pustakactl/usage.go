package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newUsageCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show completion quota usage for the current window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, c, done, err := connect(cmd)
			if err != nil {
				return err
			}
			defer done()

			u := c.Usage(ctx)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "provider:  %s (%s)\n", u.Provider, u.Model)
			fmt.Fprintf(w, "window:    %s - %s\n", u.WindowStart.Format(time.RFC3339), u.WindowEnd.Format(time.RFC3339))
			if u.Limit > 0 {
				fmt.Fprintf(w, "requests:  %d/%d (%d remaining)\n", u.Used, u.Limit, u.Remaining)
			} else {
				fmt.Fprintf(w, "requests:  %d (unlimited)\n", u.Used)
			}
			fmt.Fprintf(w, "cached:    %d responses\n", u.CacheEntries)
			if u.Exhausted {
				fmt.Fprintln(w, "quota exhausted: model calls fall back until the window resets")
			}
			return nil
		},
	}
}

func newHealthCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the database and the completion provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, c, done, err := connect(cmd)
			if err != nil {
				return err
			}
			defer done()

			h := c.Health(ctx)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "status: %s\n", h.Status)
			for _, name := range []string{"database", "completion"} {
				if v, ok := h.Checks[name]; ok {
					fmt.Fprintf(w, "  %-10s %s\n", name, v)
				}
			}
			if h.Status == "error" {
				return fmt.Errorf("unhealthy")
			}
			return nil
		},
	}
}
