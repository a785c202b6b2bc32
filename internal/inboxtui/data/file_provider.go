package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider serves snapshots from a JSON file. The file is re-read on every
// call so edits show up on the next poll.
type FileProvider struct {
	path string
}

func NewFileProvider(cfg FileProviderConfig) (*FileProvider, error) {
	trimmed := strings.TrimSpace(cfg.Path)
	if trimmed == "" {
		return nil, fmt.Errorf("snapshot file required")
	}
	path, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, err
	}
	return &FileProvider{path: path}, nil
}

func (p *FileProvider) Path() string {
	return p.path
}

func (p *FileProvider) FetchConversations(ctx context.Context) ([]Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetchErr(FetchTransport, err)
	}
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fetchErr(FetchTransport, err)
	}
	defer f.Close()

	conversations, err := DecodeSnapshot(f)
	if err != nil {
		return nil, snapshotErr(err)
	}
	return conversations, nil
}
