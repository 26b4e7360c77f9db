package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pustaka-digital/pustaka/pkg/pustaka"
)

type generateFlags struct {
	id      string
	all     bool
	missing bool
	upgrade bool
}

// request maps the flags to a generation request. Exactly one selector is allowed.
func (f generateFlags) request() (pustaka.GenerateRequest, error) {
	var reqs []pustaka.GenerateRequest
	if f.id != "" {
		reqs = append(reqs, pustaka.GenerateRequest{Mode: pustaka.ModeSingle, PlaylistID: f.id})
	}
	if f.all {
		reqs = append(reqs, pustaka.GenerateRequest{Mode: pustaka.ModeAll})
	}
	if f.missing {
		reqs = append(reqs, pustaka.GenerateRequest{Mode: pustaka.ModeMissing})
	}
	if f.upgrade {
		reqs = append(reqs, pustaka.GenerateRequest{Mode: pustaka.ModeUpgrade})
	}
	if len(reqs) != 1 {
		return pustaka.GenerateRequest{}, errors.New("pass exactly one of --id, --all, --missing, --upgrade")
	}
	return reqs[0], nil
}

func newPlaylistsCmd(connect connectFunc) *cobra.Command {
	playlists := &cobra.Command{
		Use:   "playlists",
		Short: "Playlist commands",
	}

	var flags generateFlags
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate playlist metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			ctx, c, done, err := connect(cmd)
			if err != nil {
				return err
			}
			defer done()

			sum, err := c.GeneratePlaylists(ctx, req)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			failed := 0
			for _, o := range sum.Outcomes {
				if o.OK() {
					fmt.Fprintf(w, "ok     %s  %s\n", o.PlaylistID, o.PlaylistName)
					continue
				}
				failed++
				fmt.Fprintf(w, "failed %s  %s: %v\n", o.PlaylistID, o.PlaylistName, o.Err)
			}
			fmt.Fprintln(w, sum.Message)
			if failed > 0 {
				return fmt.Errorf("%d of %d playlists failed", failed, len(sum.Outcomes))
			}
			return nil
		},
	}
	generate.Flags().StringVar(&flags.id, "id", "", "generate one playlist")
	generate.Flags().BoolVar(&flags.all, "all", false, "regenerate every playlist")
	generate.Flags().BoolVar(&flags.missing, "missing", false, "generate playlists without metadata")
	generate.Flags().BoolVar(&flags.upgrade, "upgrade", false, "regenerate playlists holding fallback metadata")

	playlists.AddCommand(generate)
	return playlists
}
