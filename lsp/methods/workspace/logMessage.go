package workspace

import (
	"errors"
	"fmt"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/multierr"
)

func canNotify(context *glsp.Context) bool {
	return context != nil && context.Notify != nil
}

// LogError logs an error message to stderr and, when connected, to the client
func LogError(context *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Error("%s", message)
	logMessage(context, protocol.MessageTypeError, message)
}

// LogWarning logs a warning message to stderr and, when connected, to the client
func LogWarning(context *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Warn("%s", message)
	logMessage(context, protocol.MessageTypeWarning, message)
}

// LogInfo logs an informational message to stderr and, when connected, to the client
func LogInfo(context *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Info("%s", message)
	logMessage(context, protocol.MessageTypeInfo, message)
}

func logMessage(context *glsp.Context, messageType protocol.MessageType, message string) {
	if !canNotify(context) {
		return
	}
	go context.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
		Type:    messageType,
		Message: message,
	})
}

// ShowMessage sends a message to be displayed to the user
func ShowMessage(context *glsp.Context, messageType protocol.MessageType, message string) {
	if !canNotify(context) {
		return
	}
	go context.Notify(protocol.ServerWindowShowMessage, &protocol.ShowMessageParams{
		Type:    messageType,
		Message: message,
	})
}

// ReportReload surfaces the errors of an engine reload. Configuration
// mistakes are shown to the user; anything else, such as a missing
// variables file, is only logged.
func ReportReload(context *glsp.Context, err error) {
	for _, e := range multierr.Errors(err) {
		if errors.Is(e, types.ErrInvalidConfig) {
			LogError(context, "%v", e)
			ShowMessage(context, protocol.MessageTypeError, e.Error())
			continue
		}
		LogWarning(context, "%v", e)
	}
}
