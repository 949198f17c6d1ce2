/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "gosquircle/internal/log"
)

// BundleManifestName is the text file added at the root of every bundle.
const BundleManifestName = "bundle.manifest.txt"

// WriteBundle zips files into destZip, each stored under its base name, plus a
// manifest listing them. Two files with the same base name are an error.
func WriteBundle(destZip, title string, files []string) error {
	l := applog.WithOperation(applog.WithComponent("export"), "bundle").With(slog.String("zip", destZip))
	if strings.TrimSpace(destZip) == "" {
		return errors.New("destZip is required")
	}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		if seen[name] {
			return fmt.Errorf("bundle: duplicate entry %q", name)
		}
		seen[name] = true
	}

	if err := os.MkdirAll(filepath.Dir(destZip), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZip)

	zf, err := os.Create(destZip)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	zw := zip.NewWriter(zf)

	err = writeBundle(zw, title, files)
	if cerr := zw.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if cerr := zf.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		l.Error("bundle failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	l.Info("bundle written", slog.Int("files", len(files)))
	return nil
}

func writeBundle(zw *zip.Writer, title string, files []string) error {
	var m strings.Builder
	fmt.Fprintf(&m, "gosquircle bundle\nTitle: %s\nCreated: %s\n\n", title, time.Now().Format(time.RFC3339))
	for _, f := range files {
		fmt.Fprintf(&m, "%s\n", filepath.Base(f))
	}
	w, err := zw.Create(BundleManifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := io.WriteString(w, m.String()); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	for _, path := range files {
		if err := addFile(zw, path); err != nil {
			return err
		}
	}
	return nil
}

func addFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	fw, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, f)
	return err
}
