/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package jobs loads batch files of outline requests and renders them to disk.
//
// A jobs file is YAML or JSON. Both are checked against an embedded JSON schema
// before decoding, so structural mistakes are reported with their location.
package jobs

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// FileVersion is the only jobs file version understood.
const FileVersion = 1

// ErrInvalid is wrapped by every schema or semantic validation failure.
var ErrInvalid = errors.New("invalid jobs file")

// File is a decoded jobs file.
type File struct {
	Version  int      `yaml:"version"`
	Defaults Settings `yaml:"defaults"`
	Jobs     []Job    `yaml:"jobs"`
}

// BorderSpec is the border of a job: a stroke width and color.
type BorderSpec struct {
	Width float64 `yaml:"width"`
	Color string  `yaml:"color"`
}

// Settings are the fields shared by defaults and jobs. Pointer fields are
// unset when nil and then inherit from the level above.
type Settings struct {
	FallbackRadius *float64    `yaml:"fallback_radius"`
	Corners        string      `yaml:"corners"`
	Border         *BorderSpec `yaml:"border"`
	ClampToHeight  *bool       `yaml:"clamp_to_height"`
	GlitchFix      *bool       `yaml:"glitch_fix"`
	Fill           string      `yaml:"fill"`
	Margin         *float64    `yaml:"margin"`
	Formats        []string    `yaml:"formats"`
}

// Job is one outline to render.
type Job struct {
	Name     string  `yaml:"name"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Radius   float64 `yaml:"radius"`
	Settings `yaml:",inline"`
}

// Load reads and validates a jobs file.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}
	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates and decodes YAML or JSON jobs data.
func Parse(b []byte) (*File, error) {
	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

// validate runs the embedded schema against the generic document.
func validate(raw any) error {
	doc, err := json.Marshal(jsonSafe(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// jsonSafe turns a YAML document into something encoding/json accepts.
// YAML allows .nan and .inf; those become 0 here so the structure can still be
// checked. The decoded File keeps the real values and the kernel rejects them.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = jsonSafe(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = jsonSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = jsonSafe(e)
		}
		return out
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0.0
		}
	}
	return v
}

// check covers what the schema cannot express.
func (f *File) check() error {
	seen := make(map[string]int, len(f.Jobs))
	for i := range f.Jobs {
		name := f.Jobs[i].ResolvedName(i)
		if j, dup := seen[name]; dup {
			return fmt.Errorf("%w: jobs %d and %d share the name %q", ErrInvalid, j, i, name)
		}
		seen[name] = i
	}
	return nil
}

// ResolvedName is the job name or job-<index> when none is set.
func (j Job) ResolvedName(index int) string {
	if j.Name != "" {
		return j.Name
	}
	return fmt.Sprintf("job-%d", index)
}
