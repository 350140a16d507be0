// Command ora-enrich runs one over-representation analysis over a gene list file
// and writes the per-library tables, plots and summary into a fresh dated run directory
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"oraflow/internal/core/normalize"
	"oraflow/internal/modkit"
	"oraflow/internal/platform/config"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/logger"
	"oraflow/internal/platform/store"
	"oraflow/internal/services/api"
	rundom "oraflow/internal/services/runs/domain"
)

const service = "ora-enrich"

// envFor maps explicitly set flags onto module settings so the modules read one source
var envFor = map[string]string{
	"annotation": "ORA_IDMAP_ANNOTATION_FILE",
	"idmap":      "ORA_IDMAP_DRIVER",
	"sqlite":     "ORA_IDMAP_SQLITE_PATH",
	"overrides":  "ORA_IDMAP_OVERRIDES_FILE",
	"organism":   "ORA_IDMAP_ORGANISM",
	"genesets":   "ORA_GENESETS_DRIVER",
	"gmt-dir":    "ORA_GENESETS_DIR",
	"libraries":  "ORA_GENESETS_LIBRARIES",
	"focus-a":    "ORA_GENESETS_FOCUS_A_TERMS",
	"focus-b":    "ORA_GENESETS_FOCUS_B_TERMS",
	"p":          "ORA_ENRICH_P_CUTOFF",
	"q":          "ORA_ENRICH_Q_CUTOFF",
	"min":        "ORA_ENRICH_MIN_SET_SIZE",
	"max":        "ORA_ENRICH_MAX_SET_SIZE",
	"universe":   "ORA_ENRICH_UNIVERSE",
	"workers":    "ORA_ENRICH_WORKERS",
	"rules":      "ORA_RUNS_REWRITES_FILE",
	"out":        "ORA_REPORT_ROOT",
	"sink":       "ORA_REPORT_DRIVER",
	"archive":    "ORA_REPORT_ARCHIVE_CH",
}

func mustSetEnv(k, v string) {
	if v == "" {
		return
	}
	if err := os.Setenv(k, v); err != nil {
		logger.Named(service).Panic().Err(err).Str("key", k).Msg("setenv failed")
	}
}

func main() {
	fs := flag.NewFlagSet(service, flag.ExitOnError)
	genes := fs.String("genes", "", "gene list file, one identifier per line (required)")
	fs.String("annotation", "", "annotation TSV for the memory id mapper")
	fs.String("idmap", "", "id mapper driver: memory, pg or sqlite")
	fs.String("sqlite", "", "sqlite bundle built by ora-import")
	fs.String("overrides", "", "raw<TAB>gene_id overrides, used only when the provider has no answer")
	fs.String("organism", "", "organism code for SQL lookups")
	fs.String("genesets", "", "gene set driver: gmt, pg or sqlite")
	fs.String("gmt-dir", "", "directory of <TAG>.gmt files")
	fs.String("libraries", "", "comma separated base library tags")
	fs.String("focus-a", "", "';' separated term ids or names for FOCUS_A")
	fs.String("focus-b", "", "';' separated term ids or names for FOCUS_B")
	fs.String("p", "", "p-value cutoff (default 0.05)")
	fs.String("q", "", "p.adjust and q-value cutoff (default 0.2)")
	fs.String("min", "", "smallest tested gene set, 0 disables (default 10)")
	fs.String("max", "", "largest tested gene set, 0 disables (default 500)")
	fs.String("universe", "", "background size, 0 derives it")
	fs.String("workers", "", "libraries tested at once, 0 for all")
	fs.String("rules", "", "from<TAB>to rewrite rules applied to every identifier")
	fs.String("out", "", "results root (default results)")
	fs.String("sink", "", "report sink: fs, s3 or memory")
	fs.String("archive", "", "also insert rows into clickhouse ora_results")
	_ = fs.Parse(os.Args[1:])

	fs.Visit(func(f *flag.Flag) {
		if key, ok := envFor[f.Name]; ok {
			mustSetEnv(key, f.Value.String())
		}
	})

	l := logger.Named(service)
	if *genes == "" {
		fs.Usage()
		os.Exit(2)
	}
	if err := run(*genes); err != nil {
		e, _ := perr.As(err)
		ev := l.Error().Err(err)
		if e != nil {
			ev = ev.Str("kind", e.Code().String()).Str("field", e.Field()).Str("op", e.Op())
		}
		ev.Msg("run failed")
		os.Exit(1)
	}
}

func run(path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	l := logger.Named(service)

	litePath := ""
	idm := root.Prefix("ORA_IDMAP_")
	if idm.MayString("DRIVER", "memory") == "sqlite" || root.Prefix("ORA_GENESETS_").MayString("DRIVER", "gmt") == "sqlite" {
		litePath = idm.MayString("SQLITE_PATH", "oraflow.db")
	}
	st, err := store.Open(ctx, store.FromConfig(root, service, litePath), store.WithLogger(*l))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeInput, "open gene list"), "genes")
	}
	defer f.Close()
	list, err := normalize.Read(f, nil)
	if err != nil {
		return err
	}

	stack, err := api.Compose(ctx, modkit.FromStore(root, st, nil))
	if err != nil {
		return err
	}
	out, err := stack.Runner.Run(ctx, rundom.Request{Genes: list})
	if err != nil {
		return err
	}

	ev := l.Info().Str("run_id", out.Meta.RunID).Int("mapped", out.Meta.Mapped).Int("unmapped", out.Meta.Unmapped)
	for tag, n := range out.Counts() {
		ev = ev.Int(tag, n)
	}
	if out.Location != nil {
		ev = ev.Str("location", out.Location.Location)
	}
	ev.Msg("enrichment complete")
	return nil
}
