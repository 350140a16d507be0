// Package service writes run artifacts: one table per library, plot data, a summary and an optional archive
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path"

	"oraflow/internal/platform/blob"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/logger"
	ptime "oraflow/internal/platform/time"
	dom "oraflow/internal/services/report/domain"
	resdom "oraflow/internal/services/results/domain"
)

const (
	contentCSV  = "text/csv; charset=utf-8"
	contentJSON = "application/json"
)

// Config for the writer
type Config struct {
	// PlotTop caps the terms per plot file; 0 keeps all
	PlotTop int
}

// Writer implements domain.WriterPort over a blob store
type Writer struct {
	Blob    blob.Store
	Archive dom.ArchivePort // nil disables archiving
	Cfg     Config
}

// New constructs a Writer; the blob store is required
func New(b blob.Store, archive dom.ArchivePort, cfg Config) *Writer {
	if b == nil {
		panic("report: nil blob store")
	}
	return &Writer{Blob: b, Archive: archive, Cfg: cfg}
}

// Write claims a fresh {date}_{n} location and fills it
// tables are always written, plot data only for libraries with rows, the summary last
func (w *Writer) Write(ctx context.Context, agg resdom.Aggregate) (dom.RunLocation, error) {
	name, err := blob.ClaimRun(ctx, w.Blob, ptime.Today())
	if err != nil {
		return dom.RunLocation{}, perr.WithOp(perr.Wrap(err, perr.ErrorCodeStorage, "claim run location"), "write")
	}
	loc := dom.RunLocation{Name: name, Location: w.Blob.Location(name)}
	sum := dom.Summary{Meta: agg.Meta, Run: name, Libraries: make([]dom.LibrarySummary, 0, len(agg.Libraries))}

	for _, lib := range agg.Libraries {
		ls := dom.LibrarySummary{Tag: lib.Tag, Rows: len(lib.Rows), Table: lib.Tag + dom.TableSuffix}

		var buf bytes.Buffer
		if err := WriteTable(&buf, lib.Rows); err != nil {
			return loc, perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeUnknown, "render table"), lib.Tag), "write")
		}
		if err := w.put(ctx, name, ls.Table, &buf, contentCSV, lib.Tag); err != nil {
			return loc, err
		}
		loc.Files = append(loc.Files, ls.Table)

		if len(lib.Rows) > 0 {
			ls.Plot = lib.Tag + dom.PlotSuffix
			if err := w.putJSON(ctx, name, ls.Plot, Plot(lib.Tag, lib.Rows, w.Cfg.PlotTop), lib.Tag); err != nil {
				return loc, err
			}
			loc.Files = append(loc.Files, ls.Plot)
		}
		sum.Libraries = append(sum.Libraries, ls)
	}

	if w.Archive != nil {
		n, err := w.Archive.Archive(ctx, agg)
		if err != nil {
			return loc, perr.WithOp(err, "archive")
		}
		loc.Archived = n
	}

	if err := w.putJSON(ctx, name, dom.SummaryName, sum, ""); err != nil {
		return loc, err
	}
	loc.Files = append(loc.Files, dom.SummaryName)

	logger.C(ctx).Info().
		Str("run", name).
		Str("location", loc.Location).
		Int("files", len(loc.Files)).
		Int("archived", loc.Archived).
		Msg("report written")
	return loc, nil
}

func (w *Writer) putJSON(ctx context.Context, run, file string, v any, tag string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeUnknown, "encode "+file), tag), "write")
	}
	return w.put(ctx, run, file, &buf, contentJSON, tag)
}

func (w *Writer) put(ctx context.Context, run, file string, buf *bytes.Buffer, contentType, tag string) error {
	if err := w.Blob.Put(ctx, path.Join(run, file), buf, contentType); err != nil {
		return perr.WithOp(perr.WithField(perr.Wrapf(err, perr.ErrorCodeStorage, "put %s", file), tag), "write")
	}
	return nil
}
