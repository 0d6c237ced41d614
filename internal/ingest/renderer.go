// Package ingest turns raw documentation-portal payloads into plain text
// and splits that text into fixed-size chunks ready for embedding.
package ingest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Entry is one documentation node as returned by the portal API. Articles
// carry markdown in Data; models carry a JSON schema object.
type Entry struct {
	Name          string                 `json:"name"`
	Summary       string                 `json:"summary"`
	Type          string                 `json:"type"`
	URI           string                 `json:"uri"`
	Data          json.RawMessage        `json:"data"`
	BundledModels map[string]schemaModel `json:"bundledModels"`
}

// schemaModel is a named schema definition bundled with a model entry.
type schemaModel struct {
	Type       string                    `json:"type"`
	Summary    string                    `json:"summary"`
	Properties map[string]schemaProperty `json:"properties"`
}

// schemaProperty is one property of a schema object.
type schemaProperty struct {
	Type        string       `json:"type"`
	Ref         string       `json:"$ref"`
	Description string       `json:"description"`
	Example     any          `json:"example"`
	Items       *schemaItems `json:"items"`
}

// schemaItems describes the element type of an array property.
type schemaItems struct {
	Type string `json:"type"`
	Ref  string `json:"$ref"`
}

// entrySchema is the Data payload of a model entry.
type entrySchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
}

// RenderEntry flattens a portal entry into the prose fed to the embedding
// model. The output always carries the title and summary so retrieval can
// match on them, followed by the article markdown or a sentence-per-field
// description of the schema.
func RenderEntry(entry Entry) (string, error) {
	name := entry.Name
	if name == "" {
		name = "Unnamed Document"
	}

	parts := []string{"Title: " + name}
	if entry.Summary != "" {
		parts = append(parts, "Summary: "+entry.Summary)
	}

	content, err := renderContent(entry, name)
	if err != nil {
		return "", err
	}
	parts = append(parts, "Content: "+strings.TrimSpace(content))

	return strings.TrimSpace(strings.Join(parts, "\n\n")), nil
}

// Kind maps a portal entry type to the document kind stored alongside it.
func Kind(entry Entry) string {
	switch entry.Type {
	case "model":
		return domain.DocKindModel
	default:
		return domain.DocKindArticle
	}
}

func renderContent(entry Entry, name string) (string, error) {
	switch entry.Type {
	case "article":
		var markdown string
		if err := json.Unmarshal(entry.Data, &markdown); err != nil {
			return "", fmt.Errorf("article %q: data is not a string: %w", name, err)
		}
		return markdown, nil

	case "model":
		var schema entrySchema
		if err := json.Unmarshal(entry.Data, &schema); err != nil {
			return "", fmt.Errorf("model %q: data is not a schema object: %w", name, err)
		}

		schemaType := schema.Type
		if schemaType == "" {
			schemaType = "object"
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "This defines the model '%s', which is a '%s'.", name, schemaType)
		sb.WriteString(renderProperties(schema.Properties))
		sb.WriteString(renderBundledModels(entry.BundledModels))
		return sb.String(), nil

	default:
		// Unrecognised type with string data: use the data directly.
		var markdown string
		if err := json.Unmarshal(entry.Data, &markdown); err == nil {
			logger.Warn("Entry %q has unrecognised type %q, using string data as-is", name, entry.Type)
			return markdown, nil
		}
		logger.Warn("Could not extract content for %q of type %q", name, entry.Type)
		return "Content could not be processed.", nil
	}
}

// renderProperties describes each schema property in one sentence.
// Property names are sorted so the rendered text is deterministic.
func renderProperties(properties map[string]schemaProperty) string {
	if len(properties) == 0 {
		return " It has no defined properties."
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	sentences := make([]string, 0, len(names))
	for _, name := range names {
		sentences = append(sentences, describeProperty(name, properties[name]))
	}
	return " Properties include: " + strings.Join(sentences, " ")
}

func describeProperty(name string, prop schemaProperty) string {
	if prop.Ref != "" {
		return fmt.Sprintf("Property '%s' references model '%s'.%s", name, refName(prop.Ref), propertyDetails(prop))
	}

	propType := prop.Type
	if propType == "" {
		propType = "any"
	}

	desc := fmt.Sprintf("Property '%s' is type '%s'.", name, propType)
	if propType == "array" {
		switch {
		case prop.Items != nil && prop.Items.Ref != "":
			desc += fmt.Sprintf(" It is an array of '%s'.", refName(prop.Items.Ref))
		case prop.Items != nil && prop.Items.Type != "":
			desc += fmt.Sprintf(" It is an array of type '%s'.", prop.Items.Type)
		default:
			desc += " It is an array of unspecified items."
		}
	}

	return desc + propertyDetails(prop)
}

// propertyDetails appends the optional description and example.
func propertyDetails(prop schemaProperty) string {
	var sb strings.Builder
	if prop.Description != "" {
		fmt.Fprintf(&sb, " Description: %s", prop.Description)
	}
	if prop.Example != nil {
		fmt.Fprintf(&sb, " Example: %v", prop.Example)
	}
	return sb.String()
}

// renderBundledModels describes each definition shipped alongside a model.
func renderBundledModels(models map[string]schemaModel) string {
	if len(models) == 0 {
		return ""
	}

	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)

	texts := make([]string, 0, len(names))
	for _, name := range names {
		model := models[name]
		modelType := model.Type
		if modelType == "" {
			modelType = "object"
		}

		text := fmt.Sprintf("Includes definition for '%s' (type: %s).", name, modelType)
		if model.Summary != "" {
			text += " Summary: " + model.Summary
		}
		text += renderProperties(model.Properties)
		texts = append(texts, text)
	}
	return " Bundled model definitions: " + strings.Join(texts, " ")
}

// refName extracts the definition name from a JSON pointer reference.
func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
