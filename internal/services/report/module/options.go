package module

import (
	"oraflow/internal/platform/blob"
	"oraflow/internal/platform/config"
)

// Options holds configuration settings for the report writer
type Options struct {
	Blob      blob.Config
	PlotTop   int
	ArchiveCH bool
}

// FromConfig reads ORA_REPORT_* and ORA_BLOB_S3_* settings
func FromConfig(cfg config.Conf) Options {
	r := cfg.Prefix("ORA_REPORT_")
	s3 := cfg.Prefix("ORA_BLOB_S3_")
	return Options{
		Blob: blob.Config{
			Driver: blob.Driver(r.MayEnum("DRIVER", string(blob.DriverFilesystem), "fs", "s3", "memory")),
			Root:   r.MayString("ROOT", "results"),
			S3: blob.S3Config{
				Bucket:    s3.MayString("BUCKET", ""),
				Region:    s3.MayString("REGION", "us-east-1"),
				Endpoint:  s3.MayString("ENDPOINT", ""),
				PathStyle: s3.MayBool("PATH_STYLE", false),
				Prefix:    s3.MayString("PREFIX", ""),
			},
		},
		PlotTop:   r.MayInt("PLOT_TOP", 20),
		ArchiveCH: r.MayBool("ARCHIVE_CH", false),
	}
}
