package filestore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// encodeDocument renders the registry as a JSON object keyed by
// composite key. Passwords are written as stored.
func encodeDocument(objects map[string]types.Entity) ([]byte, error) {
	doc := make(map[string]map[string]any, len(objects))
	for key, e := range objects {
		doc[key] = e.ToMap(false)
	}
	return json.Marshal(doc)
}

// decodeDocument parses a document into entities keyed by composite key.
// skip is called for every record that cannot be reconstructed; the
// remaining records still load. An error wrapping ErrCorruptDocument is
// returned when the document as a whole is not a JSON object.
func decodeDocument(data []byte, skip func(key string, err error)) (map[string]types.Entity, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", types.ErrCorruptDocument)
	}
	out := make(map[string]types.Entity)
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		k := string(key)
		if dataType != jsonparser.Object {
			skip(k, fmt.Errorf("%w: record is %s, not an object", types.ErrCorruptDocument, dataType))
			return nil
		}
		var attrs map[string]any
		if err := json.Unmarshal(value, &attrs); err != nil {
			skip(k, err)
			return nil
		}
		e, err := recordEntity(k, attrs)
		if err != nil {
			skip(k, err)
			return nil
		}
		out[types.Key(e)] = e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCorruptDocument, err)
	}
	return out, nil
}

// recordEntity reconstructs the record stored under key. An untagged
// record takes its variant from the key prefix, and a record without an
// id takes the key suffix.
func recordEntity(key string, attrs map[string]any) (types.Entity, error) {
	prefix, id, _ := strings.Cut(key, ".")
	if _, ok := attrs["id"]; !ok && id != "" {
		attrs["id"] = id
	}
	if _, ok := types.TypeTag(attrs); ok {
		return types.FromMapAuto(attrs)
	}
	kind, err := types.ParseKind(prefix)
	if err != nil {
		return nil, fmt.Errorf("untagged record: %w", err)
	}
	return types.FromMap(kind, attrs)
}

// writeDocument replaces the file at path with data using the temp-file,
// fsync, rename pattern.
func writeDocument(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hbnb-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
