package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// protectedAttrs cannot be set from the command line on update.
var protectedAttrs = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	types.TypeField:     true,
	"__class__":         true,
	types.PasswordField: true,
}

// parseKind maps a type argument onto a Kind with a usage-friendly error.
func parseKind(name string) (types.Kind, error) {
	kind, err := types.ParseKind(name)
	if err != nil {
		names := make([]string, len(types.Kinds))
		for i, k := range types.Kinds {
			names[i] = k.String()
		}
		return types.AnyKind, fmt.Errorf("%w (valid: %s)", err, strings.Join(names, ", "))
	}
	return kind, nil
}

// optionalKind parses an optional type argument; no argument means every
// kind.
func optionalKind(args []string) (types.Kind, error) {
	if len(args) == 0 {
		return types.AnyKind, nil
	}
	return parseKind(args[0])
}

// parseParams turns key=value arguments into attributes. Values are
// decoded as JSON when possible, otherwise taken as raw text. Underscores
// in quoted strings become spaces. Arguments without "=" are skipped.
func parseParams(args []string) map[string]any {
	attrs := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			continue
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		if s, ok := value.(string); ok && strings.HasPrefix(raw, `"`) {
			value = strings.ReplaceAll(s, "_", " ")
		}
		attrs[key] = value
	}
	return attrs
}

// applyParams returns a copy of e with params applied. A password param
// is hashed with SetPassword.
func applyParams(e types.Entity, params map[string]any, allowIdentity bool) (types.Entity, error) {
	attrs := e.ToMap(false)
	var password *string
	for k, v := range params {
		if k == types.PasswordField {
			s := fmt.Sprint(v)
			password = &s
			continue
		}
		if protectedAttrs[k] && !(allowIdentity && k == "id") {
			continue
		}
		attrs[k] = v
	}

	updated, err := types.FromMap(e.Kind(), attrs)
	if err != nil {
		return nil, err
	}
	if password != nil {
		u, ok := updated.(*types.User)
		if !ok {
			return nil, fmt.Errorf("%s has no password", e.Kind())
		}
		if err := u.SetPassword(*password); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// redacted returns the public mappings of es.
func redacted[T types.Entity](es []T) []map[string]any {
	out := make([]map[string]any, len(es))
	for i, e := range es {
		out[i] = e.ToMap(true)
	}
	return out
}
