package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sherlocksearch/holmes/pkg/bucket"
	"github.com/sherlocksearch/holmes/pkg/urlstore"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "report bucket size and look up URL-store entries",
		Long:  `cache reports in-memory bucket and URL-store counters. Against real storage it would point at the configured Mongo bucket and Redis URL/MD5 stores instead of the fakes used here.`,
	}
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cacheLookupCommand())
	return cmd
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "print bucket record count",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadOrDefault(configPath)
			if err != nil {
				return err
			}
			b := bucket.NewMemBucket()
			n, err := b.Len(cmd.Context())
			if err != nil {
				return err
			}
			printKeyValue("bucket records", fmt.Sprintf("%d", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	return cmd
}

func (c *CLI) cacheLookupCommand() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "look up a key in the URL store, reporting a cache hit or miss",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := urlstore.NewMemStore()
			_, hit, err := store.Lookup(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", key, cacheEntryStatus(hit))
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "URL-store key to look up (required)")
	cmd.MarkFlagRequired("key")
	return cmd
}
