package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jepaynedev/mailprep/internal/headers"
	"github.com/jepaynedev/mailprep/internal/merge"
)

// headersRaw prints the header row instead of the mapping.
var headersRaw bool

// headersCmd shows how list files would be mapped, without writing anything.
var headersCmd = &cobra.Command{
	Use:   "headers FILE...",
	Short: "Show the headers and mapping of list files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		opts := headers.FromConfig(cfg)

		store := merge.NewStore()
		for _, path := range args {
			input, err := headers.Read(path, opts)
			if err != nil {
				return err
			}
			log.Debug("Read %d header(s) from %s", len(input.Headers), path)

			if headersRaw {
				fmt.Fprintf(out, "%s: %s\n", input.Name, strings.Join(input.Headers, ", "))
				continue
			}
			store.SetFileMappings(input.Name, merge.CreateMapDictWith(merge.DefaultFieldMappers(), cfg.Blacklist, input.Headers))
		}

		if headersRaw {
			return nil
		}
		_, err = store.WriteTo(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(headersCmd)

	headersCmd.Flags().BoolVar(&headersRaw, "raw", false, "Print the header row instead of the mapping")
}
