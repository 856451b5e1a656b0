package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Marshal encodes entries as indented JSON in the same layout as the embedded snapshot.
func Marshal(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func EncodeJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if entries == nil {
		entries = []Entry{}
	}
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding catalog JSON: %w", err)
	}
	return nil
}

func EncodeYAML(w io.Writer, entries []Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding catalog YAML: %w", err)
	}
	return enc.Close()
}

// csvHeader uses the JSON field names so exported columns line up with the snapshot.
var csvHeader = []string{
	"id", "title", "sourcePage", "platform", "versionLabel", "status", "summary",
	"imageSrc", "imageAlt", "officialUrl", "officialLabel", "tags", "verifiedOn",
}

// EncodeCSV writes one row per entry. Tags are joined with "|".
func EncodeCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.ID,
			e.Title,
			strconv.Itoa(e.SourcePage),
			e.Platform,
			e.VersionLabel,
			string(e.Status),
			e.Summary,
			e.ImageSrc,
			e.ImageAlt,
			e.OfficialURL,
			e.OfficialLabel,
			strings.Join(e.Tags, "|"),
			e.VerifiedOn,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
