package workspace

import (
	"encoding/json"
	"fmt"
	"strings"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Commands offered through workspace/executeCommand
const (
	// CommandPickVariable lists every indexed variable. An optional string
	// argument filters by name or value.
	CommandPickVariable = "cssActions.pickVariable"
	// CommandInsertVariable replaces selections with a variable name.
	CommandInsertVariable = "cssActions.insertVariable"
)

// Commands is the list advertised in the server capabilities
var Commands = []string{CommandPickVariable, CommandInsertVariable}

// PickItem is one entry of the variable picker
type PickItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Key   string `json:"key"`
	File  string `json:"file,omitempty"`
}

// InsertVariableArgs are the arguments of CommandInsertVariable
type InsertVariableArgs struct {
	URI    protocol.DocumentUri `json:"uri"`
	Name   string               `json:"name"`
	Ranges []protocol.Range     `json:"ranges"`
}

// ExecuteCommand handles the workspace/executeCommand request
func ExecuteCommand(req *types.RequestContext, params *protocol.ExecuteCommandParams) (any, error) {
	log.Info("Execute command: %s", params.Command)

	switch params.Command {
	case CommandPickVariable:
		return pickVariable(req, params.Arguments)
	case CommandInsertVariable:
		return insertVariable(req, params.Arguments)
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
}

func pickVariable(req *types.RequestContext, args []any) ([]PickItem, error) {
	var query string
	if len(args) > 0 {
		query, _ = args[0].(string)
	}
	query = strings.ToLower(strings.TrimSpace(query))

	type pair struct{ name, value string }
	seen := map[pair]bool{}
	items := []PickItem{}
	for _, e := range req.Server.Engine().Index().Entries() {
		p := pair{e.Name, e.Value}
		if seen[p] {
			continue
		}
		seen[p] = true

		if query != "" &&
			!strings.Contains(strings.ToLower(e.Name), query) &&
			!strings.Contains(strings.ToLower(e.Value), query) {
			continue
		}
		items = append(items, PickItem{Name: e.Name, Value: e.Value, Key: e.Key, File: e.File})
	}
	return items, nil
}

func insertVariable(req *types.RequestContext, args []any) (*protocol.WorkspaceEdit, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s needs an argument", CommandInsertVariable)
	}

	// Round-trip through JSON to reuse the struct tags
	data, err := json.Marshal(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	var parsed InsertVariableArgs
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid %s arguments: %w", CommandInsertVariable, err)
	}
	if parsed.URI == "" || parsed.Name == "" {
		return nil, fmt.Errorf("%s needs a uri and a name", CommandInsertVariable)
	}
	if len(parsed.Ranges) == 0 {
		return nil, nil
	}

	edits := make([]protocol.TextEdit, 0, len(parsed.Ranges))
	for _, r := range parsed.Ranges {
		edits = append(edits, protocol.TextEdit{Range: r, NewText: parsed.Name})
	}
	edit := &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{parsed.URI: edits},
	}

	if req.GLSP != nil && req.GLSP.Call != nil {
		label := "Insert " + parsed.Name
		applyParams := protocol.ApplyWorkspaceEditParams{Label: &label, Edit: *edit}
		// workspace/applyEdit is a request; calling it from inside this
		// request's handler must not block the message loop.
		go func() {
			var result protocol.ApplyWorkspaceEditResponse
			req.GLSP.Call(protocol.ServerWorkspaceApplyEdit, applyParams, &result)
			if !result.Applied {
				log.Warn("Client did not apply %s", label)
			}
		}()
	}

	return edit, nil
}
