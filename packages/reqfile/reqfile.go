// Package reqfile loads request definitions from YAML files so the CLI
// can replay them. A request file looks like:
//
//	method: POST
//	url: https://api.example.com/things
//	headers:
//	  - name: Content-Type
//	    value: application/json
//	body: '{"name":"fish"}'
//
// Headers are a list, not a map, because their order is significant on the
// wire. body_file may be given instead of body to read the payload from
// disk, resolved relative to the request file.
package reqfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nanofish-go/nanofish/packages/header"
	"github.com/nanofish-go/nanofish/packages/request"
)

// Entry is one ordered header line.
type Entry struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// File is a parsed request file.
type File struct {
	Method   string  `yaml:"method"`
	URL      string  `yaml:"url"`
	Headers  []Entry `yaml:"headers"`
	Body     string  `yaml:"body"`
	BodyFile string  `yaml:"body_file"`

	baseDir string
}

// Load reads and validates a request file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reqfile: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("reqfile: parse %s: %w", path, err)
	}
	f.baseDir = filepath.Dir(path)

	if f.Method == "" {
		f.Method = string(request.MethodGet)
	}
	if _, ok := request.ParseMethod(f.Method); !ok {
		return nil, fmt.Errorf("reqfile: %s: unsupported method %q", path, f.Method)
	}
	if f.URL == "" {
		return nil, fmt.Errorf("reqfile: %s: missing url", path)
	}
	if f.Body != "" && f.BodyFile != "" {
		return nil, fmt.Errorf("reqfile: %s: body and body_file are mutually exclusive", path)
	}

	return &f, nil
}

// RequestMethod returns the validated method.
func (f *File) RequestMethod() request.Method {
	m, _ := request.ParseMethod(f.Method)
	return m
}

// HeaderSet builds the ordered header set. Headers past the fixed
// capacity are dropped, matching the engine's wire behavior.
func (f *File) HeaderSet() header.Set {
	var s header.Set
	for _, e := range f.Headers {
		s.Add(e.Name, e.Value)
	}
	return s
}

// BodyBytes returns the request body, reading body_file relative to the
// request file when set. A nil return means no body.
func (f *File) BodyBytes() ([]byte, error) {
	if f.BodyFile != "" {
		path := f.BodyFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(f.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reqfile: read body file: %w", err)
		}
		return data, nil
	}
	if f.Body == "" {
		return nil, nil
	}
	return []byte(f.Body), nil
}
