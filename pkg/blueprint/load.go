package blueprint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Syntax is the serialization a blueprint is written in.
type Syntax string

const (
	SyntaxTOML Syntax = "toml"
	SyntaxYAML Syntax = "yaml"
	SyntaxHCL  Syntax = "hcl"
	SyntaxJSON Syntax = "json"
)

// SyntaxOf returns the syntax implied by path's extension.
func SyntaxOf(path string) (Syntax, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return SyntaxTOML, nil
	case ".yaml", ".yml":
		return SyntaxYAML, nil
	case ".hcl":
		return SyntaxHCL, nil
	case ".json":
		return SyntaxJSON, nil
	}
	return "", errors.ValidateBlueprintPath(path)
}

// Load reads and decodes the blueprint at path.
func Load(path string) (*Blueprint, error) {
	if err := errors.ValidateBlueprintPath(path); err != nil {
		return nil, err
	}
	syntax, err := SyntaxOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "blueprint %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return Decode(data, syntax, path)
}

// Decode parses data written in syntax. Filename is used in error
// messages only. Unknown keys are rejected in every syntax.
func Decode(data []byte, syntax Syntax, filename string) (*Blueprint, error) {
	var (
		b   Blueprint
		err error
	)
	switch syntax {
	case SyntaxTOML:
		err = decodeTOML(data, &b)
	case SyntaxYAML:
		err = decodeYAML(data, &b)
	case SyntaxHCL:
		err = decodeHCL(data, filename, &b)
	case SyntaxJSON:
		err = decodeJSON(data, &b)
	default:
		return nil, errors.New(errors.ErrCodeInvalidBlueprint, "unknown blueprint syntax %q", syntax)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "decode %s", filename)
	}
	return &b, nil
}

func decodeTOML(data []byte, b *Blueprint) error {
	md, err := toml.Decode(string(data), b)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidBlueprint, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, b *Blueprint) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(b)
}

func decodeHCL(data []byte, filename string, b *Blueprint) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return diags
	}
	if diags := gohcl.DecodeBody(file.Body, nil, b); diags.HasErrors() {
		return diags
	}
	return nil
}

func decodeJSON(data []byte, b *Blueprint) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(b); err != nil {
		return err
	}
	if rest := bytes.TrimSpace(data[dec.InputOffset():]); len(rest) > 0 {
		return errors.New(errors.ErrCodeInvalidBlueprint, "unexpected content after the blueprint object")
	}
	return nil
}
