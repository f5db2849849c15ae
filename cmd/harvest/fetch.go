package main

import (
	"fmt"

	"eveanchor/internal/refdata"

	"github.com/spf13/cobra"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	f := refdata.Fetcher{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the reference tables into the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.BaseURL == "" {
				f.BaseURL = root.fetchURL
			}
			written, err := f.Fetch(cmd.Context(), root.dataDir)
			if err != nil {
				return err
			}
			if len(written) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", root.dataDir)
				return nil
			}
			for _, name := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.BaseURL, "url", "", "base url of the tables (data.fetch_url, default "+refdata.DefaultSourceURL+")")
	cmd.Flags().BoolVar(&f.Overwrite, "overwrite", false, "download tables that already exist")
	return cmd
}
