// Command ora-import loads an annotation table and GMT libraries into postgres or a sqlite bundle
// so ora-enrich and ora-api can run with the pg or sqlite drivers; schema creation is idempotent.
// -export-dir writes the stored libraries back out as GMT files
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"oraflow/internal/modkit/repokit"
	"oraflow/internal/platform/config"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/logger"
	"oraflow/internal/platform/store"
	pstrings "oraflow/internal/platform/strings"
	gsrepo "oraflow/internal/services/genesets/repo"
	idmaprepo "oraflow/internal/services/idmap/repo"
)

const service = "ora-import"

type options struct {
	driver     string
	sqlitePath string
	annotation string
	gmtDir     string
	exportDir  string
	libraries  []string
	organism   string
}

func main() {
	var o options
	fs := flag.NewFlagSet(service, flag.ExitOnError)
	fs.StringVar(&o.driver, "driver", "sqlite", "target store: pg (SERVICE_PGSQL_DBURL) or sqlite")
	fs.StringVar(&o.sqlitePath, "sqlite", "oraflow.db", "sqlite bundle path")
	fs.StringVar(&o.annotation, "annotation", "", "annotation TSV: gene_id, symbol, aliases, accessions")
	fs.StringVar(&o.gmtDir, "gmt-dir", "", "directory of <TAG>.gmt files")
	fs.StringVar(&o.exportDir, "export-dir", "", "write the stored libraries to <dir>/<TAG>.gmt after importing")
	libs := fs.String("libraries", "", "comma separated tags to import, all files when empty")
	fs.StringVar(&o.organism, "organism", "mmu", "organism code stored with the annotation")
	_ = fs.Parse(os.Args[1:])
	o.libraries = pstrings.Fields(*libs, ",")

	l := logger.Named(service)
	if o.annotation == "" && o.gmtDir == "" && o.exportDir == "" {
		fs.Usage()
		os.Exit(2)
	}
	if err := run(o); err != nil {
		l.Error().Err(err).Msg("import failed")
		os.Exit(1)
	}
}

func run(o options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	l := logger.Named(service)

	lite := ""
	if o.driver == "sqlite" {
		lite = o.sqlitePath
	}
	cfg := store.FromConfig(config.New(), service, lite)
	if o.driver == "pg" && !cfg.PG.Enabled {
		return perr.WithField(perr.Configf("pg import needs a database url"), "SERVICE_PGSQL_DBURL")
	}
	cfg.CH.Enabled = false
	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	db := st.SQL(o.driver)
	if db == nil {
		return perr.WithField(perr.Configf("unknown driver %q", o.driver), "driver")
	}
	dialect := repokit.Dialect(o.driver)

	if o.annotation != "" {
		if err := importAnnotation(ctx, db, dialect, o); err != nil {
			return err
		}
	}
	if o.gmtDir != "" {
		if err := importLibraries(ctx, db, dialect, o); err != nil {
			return err
		}
	}
	if o.exportDir != "" {
		if err := exportLibraries(ctx, db, dialect, o); err != nil {
			return err
		}
	}
	return nil
}

func exportLibraries(ctx context.Context, db repokit.TxRunner, d repokit.Dialect, o options) error {
	src := repokit.MustBind(gsrepo.New(d), repokit.Queryer(db))
	names := o.libraries
	if len(names) == 0 {
		var err error
		if names, err = src.Names(ctx); err != nil {
			return err
		}
	}
	n, err := gsrepo.Export(ctx, src, o.exportDir, names)
	if err != nil {
		return err
	}
	logger.Named(service).Info().Str("dir", o.exportDir).Int("libraries", n).Msg("libraries exported")
	return nil
}

func importAnnotation(ctx context.Context, db repokit.TxRunner, d repokit.Dialect, o options) error {
	f, err := os.Open(o.annotation)
	if err != nil {
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeInput, "open annotation"), "annotation")
	}
	defer f.Close()
	genes, err := idmaprepo.ReadGenes(f)
	if err != nil {
		return err
	}
	repo := repokit.MustBind(idmaprepo.New(d, o.organism), repokit.Queryer(db))
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	var n int
	err = repokit.WithTx(ctx, db, func(q repokit.Queryer) (err error) {
		n, err = idmaprepo.New(d, o.organism).Bind(q).UpsertGenes(ctx, genes)
		return err
	})
	if err != nil {
		return err
	}
	logger.Named(service).Info().Str("organism", o.organism).Int("genes", n).Msg("annotation imported")
	return nil
}

func importLibraries(ctx context.Context, db repokit.TxRunner, d repokit.Dialect, o options) error {
	dir := gsrepo.NewDir(o.gmtDir)
	names := o.libraries
	if len(names) == 0 {
		var err error
		if names, err = dir.Names(ctx); err != nil {
			return err
		}
	}
	if err := repokit.MustBind(gsrepo.New(d), repokit.Queryer(db)).EnsureSchema(ctx); err != nil {
		return err
	}
	for _, name := range names {
		sets, err := dir.Sets(ctx, name)
		if err != nil {
			return err
		}
		var n int
		err = repokit.WithTx(ctx, db, func(q repokit.Queryer) (err error) {
			n, err = gsrepo.New(d).Bind(q).ReplaceLibrary(ctx, name, sets)
			return err
		})
		if err != nil {
			return err
		}
		logger.Named(service).Info().Str("library", name).Int("terms", n).Msg("library imported")
	}
	return nil
}
