package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uber/ensime-client/src/ensime/entity"
	"github.com/uber/ensime-client/src/ensime/mapper"
	"github.com/uber/ensime-client/src/ensime/model"
)

// dispatchFrame decodes one inbound frame and routes its payload by typehint.
// Unknown typehints are logged and dropped; nothing in here is fatal.
func (e *engine) dispatchFrame(ctx context.Context, data []byte) {
	callID, payload, err := e.codec.DecodeEnvelope(data)
	if err != nil {
		e.logger.Warnw("dropping undecodable frame", "error", err)
		return
	}
	if payload == nil {
		e.logger.Debugw("frame without payload", "callId", callID)
		return
	}

	typehint, err := mapper.PayloadTypehint(payload)
	if err != nil {
		e.logger.Warnw("dropping payload without typehint", "error", err)
		return
	}

	// Options are read, never consumed: a call id can receive several
	// responses and each dispatch sees the same options.
	var opts entity.CallOptions
	if callID != nil {
		opts = e.calls.Options(*callID)
	}

	e.metrics.dispatched.Inc(1)
	e.logger.Debugw("dispatching payload", "typehint", typehint, "callId", callID)

	switch typehint {
	case model.TypehintConnectionInfo:
		var ev model.ConnectionInfo
		if e.unmarshal(payload, typehint, &ev) {
			e.logger.Infow("handshake complete", "implementation", ev.Implementation.Name, "version", ev.Version)
			e.showMessage(ctx, fmt.Sprintf("ENSIME connected: %s %s", ev.Implementation.Name, ev.Version))
		}

	case model.TypehintCompletionInfoList:
		var ev model.CompletionInfoList
		if e.unmarshal(payload, typehint, &ev) {
			e.handleCompletionList(ctx, ev)
		}

	case model.TypehintNewScalaNotesEvent:
		var ev model.NewScalaNotesEvent
		if e.unmarshal(payload, typehint, &ev) && e.typecheck != nil {
			e.typecheck.HandleNotes(ctx, ev)
		}
	case model.TypehintClearAllScalaNotesEvent:
		if e.typecheck != nil {
			e.typecheck.HandleClearNotes(ctx)
		}
	case model.TypehintFullTypeCheckComplete:
		if e.typecheck != nil {
			e.typecheck.HandleTypecheckComplete(ctx)
		}

	case model.TypehintIndexerReadyEvent:
		e.showMessage(ctx, "ENSIME indexer ready")
	case model.TypehintAnalyzerReadyEvent:
		e.showMessage(ctx, "ENSIME analyzer ready")
	case model.TypehintSendBackgroundMessage:
		var ev model.SendBackgroundMessageEvent
		if e.unmarshal(payload, typehint, &ev) && ev.Detail != "" {
			e.showMessage(ctx, ev.Detail)
		}

	case model.TypehintRefactorDiffEffect:
		var ev model.RefactorDiffEffect
		if e.unmarshal(payload, typehint, &ev) && e.refactor != nil {
			e.refactor.HandleDiff(ctx, ev)
		}

	case model.TypehintDebugOutputEvent:
		var ev model.DebugOutputEvent
		if e.unmarshal(payload, typehint, &ev) && e.debug != nil {
			e.debug.HandleOutput(ctx, ev)
		}
	case model.TypehintDebugBreakEvent:
		var ev model.DebugBreakEvent
		if e.unmarshal(payload, typehint, &ev) && e.debug != nil {
			e.debug.HandleBreak(ctx, ev)
		}
	case model.TypehintDebugBacktrace:
		var ev model.DebugBacktrace
		if e.unmarshal(payload, typehint, &ev) && e.debug != nil {
			e.debug.HandleBacktrace(ctx, ev)
		}
	case model.TypehintDebugVMStartEvent:
		e.showMessage(ctx, "Debug VM started")
	case model.TypehintDebugVMDisconnectEvent:
		if e.debug != nil {
			e.debug.HandleVMDisconnect(ctx)
		}
	case model.TypehintDebugVMError:
		e.showMessage(ctx, "Debug VM error")

	case model.TypehintSymbolInfo:
		var ev model.SymbolInfo
		if e.unmarshal(payload, typehint, &ev) {
			e.handleSymbolInfo(ctx, ev, opts)
		}
	case model.TypehintBasicTypeInfo, model.TypehintArrowTypeInfo:
		var ev model.BasicTypeInfo
		if e.unmarshal(payload, typehint, &ev) {
			e.handleTypeInfo(ctx, ev)
		}
	case model.TypehintStringResponse:
		var ev model.StringResponse
		if e.unmarshal(payload, typehint, &ev) {
			e.handleStringResponse(ctx, ev, opts)
		}
	case model.TypehintFalseResponse:
		e.handleFalseResponse(ctx, opts)
	case model.TypehintTrueResponse, model.TypehintVoidResponse:
		// Acknowledgements carry no information worth surfacing.

	case model.TypehintImportSuggestions:
		var ev model.ImportSuggestions
		if e.unmarshal(payload, typehint, &ev) {
			e.handleImportSuggestions(ctx, ev, opts)
		}
	case model.TypehintSymbolSearchResults:
		var ev model.SymbolSearchResults
		if e.unmarshal(payload, typehint, &ev) {
			e.handleSymbolSearch(ctx, ev)
		}
	case model.TypehintSourcePositions:
		var ev model.SourcePositions
		if e.unmarshal(payload, typehint, &ev) {
			e.handleSourcePositions(ctx, ev, opts)
		}

	default:
		e.metrics.unknownPayload.Inc(1)
		e.logger.Infow("unhandled payload typehint", "typehint", typehint)
	}
}

func (e *engine) unmarshal(payload json.RawMessage, typehint string, v interface{}) bool {
	if err := json.Unmarshal(payload, v); err != nil {
		e.logger.Warnw("malformed payload", "typehint", typehint, "error", err)
		return false
	}
	return true
}

func (e *engine) showMessage(ctx context.Context, msg string) {
	if err := e.editor.ShowMessage(ctx, msg); err != nil {
		e.logger.Debugw("editor message failed", "error", err)
	}
}
