package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
)

// manifestEntry is a compact record of a single rendered test case.
type manifestEntry struct {
	Index  int    `json:"index"`
	Method string `json:"method"`
	Line   int    `json:"line"`
	SHA256 string `json:"sha256"`
	Chars  int    `json:"chars"`
}

// manifestDropped records a method section that was left out.
type manifestDropped struct {
	Method  string   `json:"method"`
	Line    int      `json:"line"`
	NotTest bool     `json:"not_test,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// manifestMeta captures run details that aid reproducibility. It carries no
// timestamps so reruns on the same input produce the same sidecar.
type manifestMeta struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	Schema  string `json:"schema"`
	Input   string `json:"input"`
	Output  string `json:"output"`
	Title   string `json:"title"`
	Written int    `json:"written"`
	Deleted bool   `json:"deleted"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of the given text.
func computeSHA256Hex(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func newManifestEntry(index int, method string, line int, rendered string) manifestEntry {
	return manifestEntry{
		Index:  index,
		Method: method,
		Line:   line,
		SHA256: computeSHA256Hex(rendered),
		Chars:  len(rendered),
	}
}

// marshalManifestJSON encodes the machine-readable sidecar manifest.
func marshalManifestJSON(meta manifestMeta, entries []manifestEntry, dropped []manifestDropped) ([]byte, error) {
	payload := struct {
		Meta    manifestMeta      `json:"meta"`
		Records []manifestEntry   `json:"records"`
		Dropped []manifestDropped `json:"dropped"`
	}{Meta: meta, Records: entries, Dropped: dropped}
	if payload.Records == nil {
		payload.Records = []manifestEntry{}
	}
	if payload.Dropped == nil {
		payload.Dropped = []manifestDropped{}
	}
	return json.MarshalIndent(payload, "", "  ")
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the output.
func deriveManifestSidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}

func writeManifest(outputPath string, meta manifestMeta, entries []manifestEntry, dropped []manifestDropped) error {
	b, err := marshalManifestJSON(meta, entries, dropped)
	if err != nil {
		return err
	}
	return os.WriteFile(deriveManifestSidecarPath(outputPath), append(b, '\n'), 0o644)
}
