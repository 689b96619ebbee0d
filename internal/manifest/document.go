package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/yaml"
	sigsyaml "sigs.k8s.io/yaml"
)

// ErrEmptyManifest is returned when a template holds no documents.
var ErrEmptyManifest = errors.New("manifest contains no documents")

// Document is one parsed YAML document describing a single cluster object.
type Document map[string]any

// Kind returns the document's kind, or "" if unset.
func (d Document) Kind() string {
	kind, _, _ := unstructured.NestedString(d, "kind")
	return kind
}

// Name returns metadata.name, or "" if unset.
func (d Document) Name() string {
	name, _, _ := unstructured.NestedString(d, "metadata", "name")
	return name
}

// Namespace returns metadata.namespace, or "" if unset.
func (d Document) Namespace() string {
	ns, _, _ := unstructured.NestedString(d, "metadata", "namespace")
	return ns
}

// Split breaks raw multi-document YAML into its documents.
// Documents holding only whitespace or comments are dropped.
func Split(raw []byte) ([][]byte, error) {
	reader := yaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(raw)))

	var docs [][]byte
	for {
		doc, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to split manifest: %w", err)
		}
		if isBlank(doc) {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Parse splits raw YAML and decodes each document.
func Parse(raw []byte) ([]Document, error) {
	chunks, err := Split(raw)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyManifest
	}

	docs := make([]Document, 0, len(chunks))
	for i, chunk := range chunks {
		var doc Document
		if err := sigsyaml.Unmarshal(chunk, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse manifest document %d: %w", i, err)
		}
		if len(doc) == 0 {
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, ErrEmptyManifest
	}
	return docs, nil
}

// Encode serialises documents as multi-document YAML.
func Encode(docs []Document) ([]byte, error) {
	var buf bytes.Buffer
	for i, doc := range docs {
		out, err := sigsyaml.Marshal(map[string]any(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal manifest document %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}

func isBlank(doc []byte) bool {
	for _, line := range strings.Split(string(doc), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return false
	}
	return true
}
