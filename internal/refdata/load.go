package refdata

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	ItemsFile          = "all_items_info.json"
	SystemsFile        = "systems_r.json"
	ConstellationsFile = "constellations_r.json"
	CelestialsFile     = "celestials.json"
	PlanetsFile        = "planet_exploit_resource.json"
)

// Files lists the data files in load order.
var Files = []string{ItemsFile, SystemsFile, ConstellationsFile, CelestialsFile, PlanetsFile}

var schemaFor = map[string]string{
	ItemsFile:          "items.schema.json",
	SystemsFile:        "systems.schema.json",
	ConstellationsFile: "constellations.schema.json",
	CelestialsFile:     "celestials.schema.json",
	PlanetsFile:        "planets.schema.json",
}

//go:embed schemas/*.json
var schemaFS embed.FS

// Load reads the five tables from dir. Each file may be plain JSON or a
// zstd-compressed ".json.zst" sibling.
func Load(dir string) (*Store, error) {
	var t Tables
	h := sha256.New()
	targets := map[string]any{
		ItemsFile:          &t.Items,
		SystemsFile:        &t.Systems,
		ConstellationsFile: &t.Constellations,
		CelestialsFile:     &t.Celestials,
		PlanetsFile:        &t.Planets,
	}
	for _, name := range Files {
		raw, err := readTable(dir, name)
		if err != nil {
			return nil, err
		}
		h.Write(raw)
		if err := validate(name, raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, targets[name]); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	s := New(t)
	s.digest = hex.EncodeToString(h.Sum(nil))
	return s, nil
}

func readTable(dir, name string) ([]byte, error) {
	path := filepath.Join(dir, name)
	raw, err := os.ReadFile(path)
	if err == nil {
		return raw, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	f, zerr := os.Open(path + ".zst")
	if zerr != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer f.Close()
	dec, zerr := zstd.NewReader(f)
	if zerr != nil {
		return nil, fmt.Errorf("%s.zst: %w", name, zerr)
	}
	defer dec.Close()
	raw, zerr = io.ReadAll(dec)
	if zerr != nil {
		return nil, fmt.Errorf("%s.zst: %w", name, zerr)
	}
	return raw, nil
}

func validate(name string, raw []byte) error {
	schemaName := schemaFor[name]
	src, err := schemaFS.ReadFile("schemas/" + schemaName)
	if err != nil {
		return fmt.Errorf("%s: schema: %w", name, err)
	}
	schema, err := jsonschema.CompileString("https://eveanchor.local/schemas/"+schemaName, string(src))
	if err != nil {
		return fmt.Errorf("%s: schema: %w", name, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// WriteCompressed stores v as a zstd-compressed JSON table at path.
func WriteCompressed(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := json.NewEncoder(enc).Encode(v); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
