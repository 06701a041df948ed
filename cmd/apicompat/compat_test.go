package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseDoc = `
swagger: "2.0"
paths:
  /blogs/{username}:
    parameters:
      - name: username
        in: path
        required: true
    get:
      parameters:
        - name: username
          in: path
          required: true
      responses:
        "200": {description: OK}
        "404": {description: Not Found}
  /blog:
    post:
      responses:
        "200": {description: OK}
definitions:
  service.CreatePostInput:
    required: [title]
    properties:
      title: {type: string}
      paragraph: {type: string}
`

func mustParse(t *testing.T, raw string) *document {
	t.Helper()
	doc, err := parseDocument([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		revision string
		want     []string
	}{
		{
			name:     "identical",
			revision: baseDoc,
			want:     nil,
		},
		{
			name: "breaking changes",
			revision: `
paths:
  /blogs/{username}:
    get:
      parameters:
        - name: username
          in: path
          required: true
        - name: limit
          in: query
          required: true
      responses:
        "200": {description: OK}
  /signin:
    post:
      responses:
        "200": {description: OK}
definitions:
  service.CreatePostInput:
    required: [title, paragraph]
    properties:
      title: {type: string}
`,
			want: []string{
				"new required parameter: GET /blogs/{username} -> query limit",
				"newly required property: service.CreatePostInput.paragraph",
				"removed path: /blog",
				"removed property: service.CreatePostInput.paragraph",
				"removed response code: GET /blogs/{username} -> 404",
			},
		},
		{
			name: "additions are compatible",
			revision: baseDoc + `
  service.SigninInput:
    properties:
      email: {type: string}
`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compare(mustParse(t, baseDoc), mustParse(t, tt.revision)))
		})
	}
}

func TestParseDocument_RequiresPaths(t *testing.T) {
	_, err := parseDocument([]byte(`swagger: "2.0"`))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	require.NoError(t, os.WriteFile(base, []byte(baseDoc), 0o600))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-base", base, "-revision", base}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "passed")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("paths:\n  /other:\n    get:\n      responses:\n        \"200\": {description: OK}\n"), 0o600))
	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-base", base, "-revision", broken}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "removed path: /blog")

	assert.Equal(t, 2, run(nil, &stdout, &stderr))
}
