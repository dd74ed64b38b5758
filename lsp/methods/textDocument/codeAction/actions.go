package codeaction

import (
	"fmt"

	"bennypowers.dev/cssa/internal/quickfix"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Title returns the code action title for replacing fragment with target
func Title(fragment, target string) string {
	return fmt.Sprintf("Replace [ %s ] with %s", fragment, target)
}

// CreateReplaceActions creates one quick fix per replacement target of the
// candidate found on line. The first one is preferred.
func CreateReplaceActions(uri protocol.DocumentUri, line protocol.UInteger, candidate quickfix.Candidate) []protocol.CodeAction {
	span := protocol.Range{
		Start: protocol.Position{
			Line:      line,
			Character: protocol.UInteger(candidate.Match.Character),
		},
		End: protocol.Position{
			Line:      line,
			Character: protocol.UInteger(candidate.Match.Character + candidate.Match.Length),
		},
	}

	actions := make([]protocol.CodeAction, 0, len(candidate.Targets))
	for i, target := range candidate.Targets {
		kind := protocol.CodeActionKindQuickFix
		action := protocol.CodeAction{
			Title: Title(candidate.Match.Text, target),
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{
					uri: {{Range: span, NewText: target}},
				},
			},
		}
		if i == 0 {
			preferred := true
			action.IsPreferred = &preferred
		}
		actions = append(actions, action)
	}
	return actions
}
