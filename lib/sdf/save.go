// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sdf

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// MediaDownloader streams a media resource into w.
// *displayvideo.Client implements it.
type MediaDownloader interface {
	DownloadMedia(ctx context.Context, resourceName string, w io.Writer) (int64, error)
}

// File describes a saved archive.
type File struct {
	Path string `json:"path"`
	Size int64  `json:"size"`

	// Digest is the hex BLAKE3-256 of the file contents.
	Digest string `json:"blake3"`
}

// Save downloads resourceName to path. The bytes land in a temporary
// file beside path and are renamed into place only after a complete
// download, so path never holds a partial archive.
func Save(ctx context.Context, downloader MediaDownloader, resourceName, path string) (*File, error) {
	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*.partial")
	if err != nil {
		return nil, fmt.Errorf("sdf: creating download file: %w", err)
	}
	temporaryPath := temporary.Name()
	committed := false
	defer func() {
		if !committed {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	hasher := blake3.New()
	size, err := downloader.DownloadMedia(ctx, resourceName, io.MultiWriter(temporary, hasher))
	if err != nil {
		return nil, err
	}
	if err := temporary.Sync(); err != nil {
		return nil, fmt.Errorf("sdf: syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return nil, fmt.Errorf("sdf: closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return nil, fmt.Errorf("sdf: moving download into place: %w", err)
	}
	committed = true

	return &File{
		Path:   path,
		Size:   size,
		Digest: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}
