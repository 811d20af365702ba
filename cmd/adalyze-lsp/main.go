// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"adalyze/internal/lsp"
)

const lsName = "adalyze" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	analyzerHandler := lsp.NewHandler()

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:            analyzerHandler.Initialize,
		Initialized:           analyzerHandler.Initialized,
		Shutdown:              analyzerHandler.Shutdown,
		SetTrace:              analyzerHandler.SetTrace,
		TextDocumentDidOpen:   analyzerHandler.TextDocumentDidOpen,
		TextDocumentDidClose:  analyzerHandler.TextDocumentDidClose,
		TextDocumentDidChange: analyzerHandler.TextDocumentDidChange,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting adalyze LSP server...")

	// Serve over standard input/output, the transport editors use for LSP
	err := s.RunStdio()
	if err != nil {
		log.Println("Error starting adalyze LSP server:", err)
		os.Exit(1)
	}
}
