package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/companyintel/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the Redis result cache",
}

func withCache(cmd *cobra.Command, fn func(ctx context.Context, c *cache.Cache) error) error {
	c := cache.New(cfg.Redis, cfg.Cache)
	defer c.Close()
	return fn(cmd.Context(), c)
}

var cacheListCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List cached keys, optionally filtered by pattern",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := "*"
		if len(args) > 0 {
			pattern = args[0]
		}
		return withCache(cmd, func(ctx context.Context, c *cache.Cache) error {
			keys, err := c.Keys(ctx, pattern)
			if err != nil {
				return err
			}
			for _, key := range keys {
				ttl, err := c.TTL(ctx, key)
				if err != nil {
					fmt.Printf("%s\n", key)
					continue
				}
				fmt.Printf("%s\tttl=%s\n", key, formatTTL(ttl))
			}
			fmt.Printf("\n%d keys\n", len(keys))
			return nil
		})
	},
}

var cacheGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a cached value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, c *cache.Cache) error {
			var raw json.RawMessage
			found, err := c.Get(ctx, args[0], &raw)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("key %q not found", args[0])
			}

			var pretty any
			if err := json.Unmarshal(raw, &pretty); err == nil {
				if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
					fmt.Println(string(out))
					return nil
				}
			}
			fmt.Println(string(raw))
			return nil
		})
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a cached key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, c *cache.Cache) error {
			if err := c.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear <pattern>",
	Short: "Delete all keys matching a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, c *cache.Cache) error {
			keys, err := c.Keys(ctx, args[0])
			if err != nil {
				return err
			}
			for _, key := range keys {
				if err := c.Delete(ctx, key); err != nil {
					return err
				}
			}
			fmt.Printf("deleted %d keys\n", len(keys))
			return nil
		})
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache key counts by namespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, c *cache.Cache) error {
			stats, err := c.CollectStats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Total keys: %d\n\n", stats.Total)
			fmt.Printf("  Profiles:           %d\n", stats.Profiles)
			fmt.Printf("  Progress:           %d\n", stats.Progress)
			fmt.Printf("  Yutori research:    %d\n", stats.Research)
			fmt.Printf("  Yutori browsing:    %d\n", stats.Browsing)
			fmt.Printf("  Tavily competitors: %d\n", stats.Search)
			fmt.Printf("  Pending tasks:      %d\n", stats.Pending)
			fmt.Printf("  Other:              %d\n", stats.Other)
			return nil
		})
	},
}

func formatTTL(ttl time.Duration) string {
	if ttl < 0 {
		return "none"
	}
	return ttl.Round(time.Second).String()
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cacheGetCmd, cacheDeleteCmd, cacheClearCmd, cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}
