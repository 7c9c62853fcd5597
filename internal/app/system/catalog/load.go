package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

type fileFormat struct {
	Courses []models.Course `yaml:"courses"`
}

// Decode reads a YAML catalog document.
func Decode(r io.Reader) ([]models.Course, error) {
	var doc fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range doc.Courses {
		doc.Courses[i].Position = i
	}
	return doc.Courses, nil
}

// LoadFile reads a YAML catalog file from disk.
func LoadFile(path string) ([]models.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Default returns the records of the embedded default catalog.
func Default() []models.Course {
	recs, err := Decode(bytes.NewReader(defaultYAML))
	if err != nil {
		// The embedded file is part of the build; a decode failure is a bug.
		panic(err)
	}
	return recs
}
