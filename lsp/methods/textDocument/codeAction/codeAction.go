package codeaction

import (
	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CodeAction handles the textDocument/codeAction request. Fragments are
// searched on the first line of the requested range, wherever the cursor
// is on it.
func CodeAction(req *types.RequestContext, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI

	log.Debug("CodeAction requested: %s", uri)

	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	if !doc.InLanguages(req.Server.GetConfig().Languages) {
		return nil, nil
	}

	if !wantsQuickFix(params.Context.Only) {
		return nil, nil
	}

	lineNumber := params.Range.Start.Line
	line, ok := doc.Line(int(lineNumber))
	if !ok {
		return nil, nil
	}

	candidates, err := req.Server.Engine().Actions(line)
	if err != nil {
		// Templates that failed to render; the others still apply
		req.AddWarning(err)
	}

	actions := []protocol.CodeAction{}
	for _, candidate := range candidates {
		actions = append(actions, CreateReplaceActions(uri, lineNumber, candidate)...)
	}

	log.Debug("Returning %d code actions", len(actions))

	return actions, nil
}

// wantsQuickFix reports whether the client's kind filter admits quick fixes.
func wantsQuickFix(only []protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, kind := range only {
		if kind == protocol.CodeActionKindQuickFix || kind == protocol.CodeActionKindEmpty {
			return true
		}
	}
	return false
}

// CodeActionResolve handles the codeAction/resolve request. Edits are
// computed eagerly, so the action is returned as-is.
func CodeActionResolve(req *types.RequestContext, action *protocol.CodeAction) (*protocol.CodeAction, error) {
	log.Debug("CodeActionResolve requested: %s", action.Title)
	return action, nil
}
