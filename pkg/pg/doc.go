// Package pg reads indexable entity records from PostgreSQL with pgx/v5.
//
// Config is populated from the environment (PG_CONN_URL and friends) through
// pkg/config. Connect opens a *pgxpool.Pool, retrying while the database
// comes up, and Healthcheck wraps a ping for health endpoints.
//
// Source implements the record source of the reconciler: every entity maps
// to a table named after its source name, every column to a record value,
// and the identifier column to the record id.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	source := pg.NewSource(pool, pg.WithSchema(cfg.Schema))
//	n, err := source.Count(ctx, entity)
package pg
