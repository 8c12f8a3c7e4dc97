package store

import (
	"fmt"
	"io"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Dataset is a template of documents (collection -> id -> fields).
// It is used to populate a fresh in-memory store and must never be shared by
// reference with a live store, see Clone.
type Dataset map[string]map[string]Fields

// Clone returns a deep copy of the dataset. Nested maps and slices inside the
// field values are copied as well, so the result shares no mutable state with d.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return Dataset{}
	}
	out := make(Dataset, len(d))
	for collection, docs := range d {
		clonedDocs := make(map[string]Fields, len(docs))
		for id, fields := range docs {
			clonedDocs[id] = CloneFields(fields)
		}
		out[collection] = clonedDocs
	}
	return out
}

// CloneFields returns a deep copy of f (nil stays nil).
func CloneFields(f Fields) Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Fields:
		return CloneFields(t)
	case map[string]any:
		out := maps.Clone(t)
		for k, nested := range out {
			out[k] = cloneValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, nested := range t {
			out[i] = cloneValue(nested)
		}
		return out
	default:
		// strings, numbers, bools and time.Time are values
		return v
	}
}

// --------------------------------------------------------------------------
// Loading datasets from YAML
// --------------------------------------------------------------------------

// LoadDataset decodes a YAML document of the form
//
//	messages:
//	  hello:
//	    text: Hello World!
//	    created_at: "2024-05-01T12:00:00.000Z"
func LoadDataset(r io.Reader) (Dataset, error) {
	var d Dataset
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		if err == io.EOF {
			return Dataset{}, nil
		}
		return nil, WrapError(RetCInvalidArgument, "failed to decode dataset", err)
	}
	if d == nil {
		d = Dataset{}
	}
	return d, nil
}

// LoadDatasetFile reads a YAML dataset from path.
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()
	return LoadDataset(f)
}
