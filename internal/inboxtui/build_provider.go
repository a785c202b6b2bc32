package inboxtui

import (
	"fmt"
	"strings"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/config"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/logging"
)

// buildFetcher picks the snapshot source: a local file wins over the endpoint.
func buildFetcher(cfg *config.Config, version string) (data.SnapshotFetcher, error) {
	if path := strings.TrimSpace(cfg.File); path != "" {
		return data.NewFileProvider(data.FileProviderConfig{Path: path})
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("no snapshot source: set --endpoint or --file")
	}
	return data.NewHTTPProvider(data.HTTPProviderConfig{
		Endpoint:  cfg.Endpoint,
		Token:     cfg.Token,
		Timeout:   cfg.RequestTimeout,
		UserAgent: "inbox/" + version,
	})
}

func describeSource(fetcher data.SnapshotFetcher) string {
	switch typed := fetcher.(type) {
	case *data.FileProvider:
		return "file " + typed.Path()
	case *data.HTTPProvider:
		return logging.RedactURL(typed.Endpoint())
	default:
		return "custom"
	}
}
