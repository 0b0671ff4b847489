// Package report encodes aggregate results for output.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownEncoding is returned for an encoding name that is not registered.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrNotTabular is returned when a tabular encoding gets a value without rows.
	ErrNotTabular = errors.New("value is not tabular")
)

// DefaultEncoding is used when no encoding is named.
const DefaultEncoding = "json"

// Tabular is implemented by values that can be written as rows.
type Tabular interface {
	Table() (header []string, rows [][]string)
}

// EncodeFunc writes v to w.
type EncodeFunc func(w io.Writer, v any) error

var encoders = map[string]EncodeFunc{
	"json":      encodeJSON,
	"yaml":      encodeYAML,
	"csv":       encodeCSV,
	"protojson": encodeProtoJSON,
}

// Encodings returns the registered encoding names, sorted.
func Encodings() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the encoder for name. An empty name selects DefaultEncoding.
func Lookup(name string) (EncodeFunc, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultEncoding
	}
	enc, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (want one of %s)", ErrUnknownEncoding, name, strings.Join(Encodings(), ", "))
	}
	return enc, nil
}

// Encode writes v to w using the named encoding.
func Encode(w io.Writer, name string, v any) error {
	enc, err := Lookup(name)
	if err != nil {
		return err
	}
	return enc(w, v)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return encoder.Close()
}

func encodeCSV(w io.Writer, v any) error {
	t, ok := v.(Tabular)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotTabular, v)
	}
	header, rows := t.Table()

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// encodeProtoJSON converts v to a structpb.Value through its JSON form and
// writes it with protojson.
func encodeProtoJSON(w io.Writer, v any) error {
	value, err := ToValue(v)
	if err != nil {
		return err
	}
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding protojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// ToValue converts a JSON-encodable value to a structpb.Value.
func ToValue(v any) (*structpb.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling value: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	value, err := structpb.NewValue(generic)
	if err != nil {
		return nil, fmt.Errorf("converting value: %w", err)
	}
	return value, nil
}
