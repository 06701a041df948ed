package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var httpMethods = map[string]struct{}{
	"get": {}, "put": {}, "post": {}, "delete": {}, "patch": {}, "head": {}, "options": {},
}

type parameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

type operation struct {
	Parameters []parameter           `yaml:"parameters"`
	Responses  map[string]yaml.Node `yaml:"responses"`
}

type schema struct {
	Required   []string             `yaml:"required"`
	Properties map[string]yaml.Node `yaml:"properties"`
}

// document is the subset of a swagger 2.0 file that clients depend on.
// Path items are kept raw because they may hold non-operation keys.
type document struct {
	Paths       map[string]map[string]yaml.Node `yaml:"paths"`
	Definitions map[string]schema               `yaml:"definitions"`

	ops map[string]map[string]operation
}

// loadDocument reads a swagger document. JSON input works too.
func loadDocument(path string) (*document, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseDocument(raw)
}

func parseDocument(raw []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	doc.ops = make(map[string]map[string]operation, len(doc.Paths))
	for path, item := range doc.Paths {
		ops := make(map[string]operation)
		for key, node := range item {
			method := strings.ToLower(strings.TrimSpace(key))
			if _, ok := httpMethods[method]; !ok {
				continue
			}
			var op operation
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(method), path, err)
			}
			ops[method] = op
		}
		if len(ops) > 0 {
			doc.ops[path] = ops
		}
	}
	return &doc, nil
}

func compare(base, revision *document) []string {
	var issues []string

	for path, baseOps := range base.ops {
		revOps, ok := revision.ops[path]
		if !ok {
			issues = append(issues, fmt.Sprintf("removed path: %s", path))
			continue
		}

		for method, baseOp := range baseOps {
			name := strings.ToUpper(method) + " " + path
			revOp, ok := revOps[method]
			if !ok {
				issues = append(issues, "removed operation: "+name)
				continue
			}

			for code := range baseOp.Responses {
				if _, ok := revOp.Responses[code]; !ok {
					issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", name, code))
				}
			}

			known := make(map[string]bool, len(baseOp.Parameters))
			for _, p := range baseOp.Parameters {
				known[p.In+":"+p.Name] = p.Required
			}
			for _, p := range revOp.Parameters {
				if !p.Required {
					continue
				}
				if wasRequired, existed := known[p.In+":"+p.Name]; !existed || !wasRequired {
					issues = append(issues, fmt.Sprintf("new required parameter: %s -> %s %s", name, p.In, p.Name))
				}
			}
		}
	}

	for defName, baseDef := range base.Definitions {
		revDef, ok := revision.Definitions[defName]
		if !ok {
			issues = append(issues, "removed definition: "+defName)
			continue
		}
		for prop := range baseDef.Properties {
			if _, ok := revDef.Properties[prop]; !ok {
				issues = append(issues, fmt.Sprintf("removed property: %s.%s", defName, prop))
			}
		}
		wasRequired := make(map[string]struct{}, len(baseDef.Required))
		for _, r := range baseDef.Required {
			wasRequired[r] = struct{}{}
		}
		for _, r := range revDef.Required {
			if _, ok := wasRequired[r]; !ok {
				issues = append(issues, fmt.Sprintf("newly required property: %s.%s", defName, r))
			}
		}
	}

	sort.Strings(issues)
	return issues
}
