package completion

import (
	"bytes"
	"strings"
	"text/template"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/normalize"
	"bennypowers.dev/cssa/internal/position"
	"bennypowers.dev/cssa/internal/variables"
	"bennypowers.dev/cssa/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Template for variable documentation
var variableDocTemplate = template.Must(template.New("variableDoc").Parse(`# {{.Name}}

**Value**: ` + "`{{.Value}}`" + `
{{if ne .Key .Value}}**Canonical**: ` + "`{{.Key}}`" + `
{{end}}{{if .File}}
*Defined in: {{.File}}*
{{end}}`))

// renderVariableDoc renders the documentation markdown for a variable
func renderVariableDoc(entry variables.Entry) (string, error) {
	var buf bytes.Buffer
	if err := variableDocTemplate.Execute(&buf, entry); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Completion handles the textDocument/completion request. Every indexed
// variable is offered, so users can pick one by name or by value; the word
// at the cursor is replaced by the chosen name.
func Completion(req *types.RequestContext, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	pos := params.Position

	log.Debug("Completion requested: %s at line %d, char %d", uri, pos.Line, pos.Character)

	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	if !doc.InLanguages(req.Server.GetConfig().Languages) {
		return nil, nil
	}

	line, ok := doc.Line(int(pos.Line))
	if !ok {
		return nil, nil
	}
	word, wordRange := getWordAtPosition(line, pos)

	type pair struct{ name, value string }
	seen := map[pair]bool{}
	normalizedWord := normalizeVariableName(word)

	items := []protocol.CompletionItem{}
	for _, entry := range req.Server.Engine().Index().Entries() {
		p := pair{entry.Name, entry.Value}
		if seen[p] {
			continue
		}
		seen[p] = true

		if normalizedWord != "" &&
			!strings.Contains(normalizeVariableName(entry.Name), normalizedWord) &&
			!strings.HasPrefix(strings.ToLower(entry.Value), strings.ToLower(word)) {
			continue
		}

		items = append(items, createItem(entry, wordRange))
	}

	log.Debug("Returning %d completion items", len(items))

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func createItem(entry variables.Entry, replace protocol.Range) protocol.CompletionItem {
	kind := protocol.CompletionItemKindVariable
	if _, ok := normalize.Color(entry.Value); ok {
		kind = protocol.CompletionItemKindColor
	}
	value := entry.Value
	filterText := entry.Name + " " + entry.Value

	item := protocol.CompletionItem{
		Label:      entry.Name,
		Kind:       &kind,
		Detail:     &value,
		FilterText: &filterText,
		TextEdit: protocol.TextEdit{
			Range:   replace,
			NewText: entry.Name,
		},
		Data: map[string]any{
			"name":  entry.Name,
			"value": entry.Value,
			"key":   entry.Key,
			"file":  entry.File,
		},
	}
	if kind == protocol.CompletionItemKindColor {
		// Clients draw a swatch from a color documentation string
		item.Documentation = entry.Value
	}
	return item
}

// CompletionResolve resolves a completion item with its documentation
func CompletionResolve(req *types.RequestContext, item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	data, ok := item.Data.(map[string]any)
	if !ok {
		return item, nil
	}

	var entry variables.Entry
	entry.Name, _ = data["name"].(string)
	entry.Value, _ = data["value"].(string)
	entry.Key, _ = data["key"].(string)
	entry.File, _ = data["file"].(string)
	if entry.Name == "" {
		entry.Name = item.Label
	}

	documentation, err := renderVariableDoc(entry)
	if err != nil {
		log.Info("Failed to render variable documentation: %v", err)
		return item, nil
	}

	item.Documentation = protocol.MarkupContent{
		Kind:  protocol.MarkupKindMarkdown,
		Value: documentation,
	}

	return item, nil
}

// getWordAtPosition returns the variable-like word ending at the cursor and
// the range it occupies. Inside a var() reference the range covers the whole
// call, closing parenthesis included. LSP positions use UTF-16 code units.
func getWordAtPosition(line string, pos protocol.Position) (string, protocol.Range) {
	end := position.UTF16ToByteOffset(line, int(pos.Character))

	start := end
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}

	if start >= len(varCall) && strings.EqualFold(line[start-len(varCall):start], varCall) {
		start -= len(varCall)
		if end < len(line) && line[end] == ')' {
			end++
		}
	}

	return line[start:end], protocol.Range{
		Start: protocol.Position{
			Line:      pos.Line,
			Character: protocol.UInteger(position.ByteOffsetToUTF16(line, start)),
		},
		End: protocol.Position{
			Line:      pos.Line,
			Character: protocol.UInteger(position.ByteOffsetToUTF16(line, end)),
		},
	}
}

const varCall = "var("

// isWordChar checks if a character can be part of a variable reference or
// a value typed in its place
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '$' || c == '@' || c == '#' || c == '.'
}

// normalizeVariableName normalizes a variable name for comparison
func normalizeVariableName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimPrefix(name, varCall)
	name = strings.TrimRight(name, ")")
	name = strings.TrimLeft(name, "$@-")
	// Remove all hyphens for fuzzy matching
	return strings.ReplaceAll(name, "-", "")
}
