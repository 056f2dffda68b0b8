package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/qri-io/jsonschema"
)

// SchemaValidator loads and caches compiled JSON schemas for request payload
// validation. Schemas are keyed by file name without extension.
type SchemaValidator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func NewSchemaValidator(fsys embed.FS, dir string) (*SchemaValidator, error) {
	v := &SchemaValidator{cache: make(map[string]*jsonschema.Schema)}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", entry.Name(), err)
		}
		v.cache[strings.TrimSuffix(entry.Name(), ".json")] = rs
	}
	return v, nil
}

// Validate checks payload against the named schema. Violations come back as a
// validation error with per-field details.
func (v *SchemaValidator) Validate(ctx context.Context, name string, payload []byte) error {
	v.mu.RLock()
	rs, ok := v.cache[name]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	verrs, err := rs.ValidateBytes(ctx, payload)
	if err != nil {
		return common.NewError(common.CodeValidation, "invalid json")
	}
	if len(verrs) > 0 {
		details := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			details[ve.PropertyPath] = ve.Message
		}
		return common.NewErrorWithDetails(common.CodeValidation, "request failed validation", details)
	}
	return nil
}
