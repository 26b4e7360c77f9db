package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pustaka-digital/pustaka/pkg/pustaka"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Books []struct {
		ID                  string `yaml:"id"`
		Title               string `yaml:"title"`
		Author              string `yaml:"author"`
		Publisher           string `yaml:"publisher"`
		PublicationYear     string `yaml:"publication_year"`
		PhysicalDescription string `yaml:"physical_description"`
		CallNumber          string `yaml:"call_number"`
	} `yaml:"books"`
	Playlists []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"playlists"`
}

func loadSeed(path string) ([]pustaka.Book, []pustaka.Playlist, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	books := make([]pustaka.Book, len(f.Books))
	for i, b := range f.Books {
		books[i] = pustaka.Book{
			ID:                  b.ID,
			Title:               b.Title,
			Author:              b.Author,
			Publisher:           b.Publisher,
			PublicationYear:     b.PublicationYear,
			PhysicalDescription: b.PhysicalDescription,
			CallNumber:          b.CallNumber,
		}
	}
	playlists := make([]pustaka.Playlist, len(f.Playlists))
	for i, p := range f.Playlists {
		playlists[i] = pustaka.Playlist{ID: p.ID, Name: p.Name, Description: p.Description}
	}
	return books, playlists, nil
}

func newSeedCmd(connect connectFunc) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import catalog records and playlists from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, playlists, err := loadSeed(file)
			if err != nil {
				return err
			}
			if len(books) == 0 && len(playlists) == 0 {
				return fmt.Errorf("seed file %s has no books or playlists", file)
			}

			ctx, c, done, err := connect(cmd)
			if err != nil {
				return err
			}
			defer done()

			if len(books) > 0 {
				if err := c.ImportBooks(ctx, books); err != nil {
					return err
				}
			}
			if len(playlists) > 0 {
				if err := c.ImportPlaylists(ctx, playlists); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d books, %d playlists\n", len(books), len(playlists))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (YAML with books and playlists)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
