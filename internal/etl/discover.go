// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package etl

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// DiscoverFiles walks root recursively and returns every .json file.
//
// filepath.WalkDir visits entries in lexical order, so the result is stable
// across runs; the loader depends on that for deterministic file order.
func DiscoverFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}
