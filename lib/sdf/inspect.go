// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sdf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Entry describes one file inside an SDF archive.
type Entry struct {
	Name string `json:"name"`
	Size uint64 `json:"size"`

	// Rows counts CSV records after the header line. -1 for entries
	// that are not CSV.
	Rows int `json:"rows"`
}

// Inspect lists the entries of the archive at archivePath.
func Inspect(archivePath string) ([]Entry, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("sdf: opening %s: %w", archivePath, err)
	}
	defer reader.Close()

	entries := make([]Entry, 0, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		entry := Entry{Name: file.Name, Size: file.UncompressedSize64, Rows: -1}
		if strings.EqualFold(path.Ext(file.Name), ".csv") {
			rows, err := countRows(file)
			if err != nil {
				return nil, fmt.Errorf("sdf: %s in %s: %w", file.Name, archivePath, err)
			}
			entry.Rows = rows
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func countRows(file *zip.File) (int, error) {
	body, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	records := 0
	for {
		_, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		records++
	}
	if records == 0 {
		return 0, nil
	}
	return records - 1, nil
}
