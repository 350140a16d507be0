package module

import (
	"context"
	"testing"

	"oraflow/internal/modkit"
	"oraflow/internal/platform/blob"
	"oraflow/internal/platform/config"
	perr "oraflow/internal/platform/errors"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("ORA_REPORT_DRIVER", "S3")
	t.Setenv("ORA_REPORT_PLOT_TOP", "5")
	t.Setenv("ORA_BLOB_S3_BUCKET", "ora-runs")
	t.Setenv("ORA_BLOB_S3_PATH_STYLE", "true")
	o := FromConfig(config.New())
	if o.Blob.Driver != blob.DriverS3 || o.Blob.S3.Bucket != "ora-runs" || !o.Blob.S3.PathStyle || o.PlotTop != 5 || o.ArchiveCH {
		t.Fatalf("options = %+v", o)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, err := New(ctx, modkit.Deps{}, Options{Blob: blob.Config{Driver: blob.DriverMemory}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p := m.Ports().(Ports); p.Writer == nil || p.Blob.Driver() != blob.DriverMemory {
		t.Fatalf("ports = %+v", p)
	}

	_, err = New(ctx, modkit.Deps{Blob: blob.NewMemory()}, Options{ArchiveCH: true})
	if e, ok := perr.As(err); !ok || e.Code() != perr.ErrorCodeConfiguration || e.Field() != "ORA_REPORT_ARCHIVE_CH" {
		t.Fatalf("err = %v", err)
	}
	_, err = New(ctx, modkit.Deps{}, Options{Blob: blob.Config{Driver: blob.DriverS3}})
	if !perr.IsCode(err, perr.ErrorCodeConfiguration) {
		t.Fatalf("s3 without bucket: %v", err)
	}
}
