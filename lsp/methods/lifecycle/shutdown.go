package lifecycle

import (
	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/lsp/types"
)

// Shutdown handles the LSP shutdown request
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	return nil
}
