// Package lsp serves analyzer findings to editors over the language server
// protocol: every open textual IR document is re-analyzed on change and its
// findings published as diagnostics.
package lsp

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"adalyze/internal/checkers"
	"adalyze/internal/errors"
	"adalyze/internal/eval"
	"adalyze/internal/interp"
	"adalyze/internal/ir"
)

// Handler implements the LSP server handlers for textual IR documents.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewHandler creates a handler with an empty document store.
func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
	}
}

// Initialize advertises the server's capabilities: full-document sync only,
// diagnostics are pushed.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

// Initialized completes the handshake.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

// Shutdown handles the LSP shutdown request.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

// SetTrace is accepted and ignored.
func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen analyzes a newly opened document.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.analyzeAndPublish(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange re-analyzes on every full-document change.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			return h.analyzeAndPublish(ctx, params.TextDocument.URI, whole.Text)
		}
	}
	return nil
}

// TextDocumentDidClose drops the document from the store.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	return nil
}

func (h *Handler) analyzeAndPublish(ctx *glsp.Context, rawURI protocol.DocumentUri, text string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	diagnostics := h.analyze(path, text)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         rawURI,
		Diagnostics: diagnostics,
	})
	return nil
}

// analyze runs the full pipeline on one document: parse, rewrite universal
// types, fixpoint, all checkers. Parse failures surface as one diagnostic at
// the failure position.
func (h *Handler) analyze(path, text string) []protocol.Diagnostic {
	prog, err := ir.ParseSource(path, text)
	if err != nil {
		return []protocol.Diagnostic{parseErrorDiagnostic(err)}
	}
	ir.RewriteUniversalTypes(prog)

	analyzer := eval.NewAnalyzer(prog, interp.DefaultInterpreter(), eval.DefaultOptions())
	results := analyzer.Run(context.Background())

	var findings []errors.Diagnostic
	for _, checker := range checkers.All() {
		findings = append(findings, checker.Run(prog, results)...)
	}
	return Convert(findings)
}

// uriToPath converts a document URI to a platform-local file path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return path, nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
