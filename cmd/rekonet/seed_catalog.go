package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rekonet-workers/internal/common/config"
	"rekonet-workers/internal/common/database"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/store"
)

var seedCatalogCmd = &cobra.Command{
	Use:   "seed-catalog",
	Short: "Load the role catalog into Postgres and the search index",
	Long:  "Upserts every role from the catalog YAML into Postgres, bulk-indexes them into Elasticsearch for goal autocompletion and drops the cached catalog in Redis.",
	RunE:  runSeedCatalog,
}

var (
	seedFile      string
	seedSkipIndex bool
)

func init() {
	seedCatalogCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Role catalog YAML, defaults to catalog.path from config")
	seedCatalogCmd.Flags().BoolVar(&seedSkipIndex, "skip-index", false, "Do not touch Elasticsearch")

	rootCmd.AddCommand(seedCatalogCmd)
}

func runSeedCatalog(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewStructured(cfg.Logging.Level, "console")

	path := seedFile
	if path == "" {
		path = cfg.Catalog.Path
	}
	catalog, err := store.LoadCatalogFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Migrate(ctx, store.Schema); err != nil {
		return err
	}
	if err := store.NewPostgresStore(pg.DB).UpsertRoles(ctx, catalog.Roles); err != nil {
		return err
	}
	log.Info("roles upserted", map[string]interface{}{"count": len(catalog.Roles), "file": path})

	if !seedSkipIndex {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		created, err := es.EnsureIndex(ctx, cfg.Search.RoleIndex, store.RoleIndexMapping)
		if err != nil {
			return err
		}
		if created {
			log.Info("role index created", map[string]interface{}{"index": cfg.Search.RoleIndex})
		}
		if err := store.NewRoleIndex(es.Client, cfg.Search.RoleIndex).IndexRoles(ctx, catalog.Roles, catalog.Synonyms); err != nil {
			return err
		}
		log.Info("roles indexed", map[string]interface{}{"index": cfg.Search.RoleIndex})
	}

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	removed, err := rdb.PurgePrefix(ctx, store.RoleCatalogCachePrefix)
	if err != nil {
		log.Warn("role cache not invalidated", map[string]interface{}{"error": err.Error()})
	} else {
		log.Info("role cache invalidated", map[string]interface{}{"keys": removed})
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d roles from %s\n", len(catalog.Roles), path)
	return err
}
