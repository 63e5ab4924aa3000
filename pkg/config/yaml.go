package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes the YAML file at path into v. Unknown keys are rejected.
// ${VAR} and $VAR references are expanded from the environment before
// decoding, so secrets can stay out of the file. An empty file leaves v as is.
func LoadYAML[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}

	return DecodeYAML(bytes.NewReader([]byte(os.ExpandEnv(string(raw)))), v)
}

// DecodeYAML strictly decodes YAML from r into v.
func DecodeYAML[T any](r io.Reader, v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Join(ErrParsingFile, err)
	}
	return nil
}
