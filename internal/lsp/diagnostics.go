package lsp

import (
	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"adalyze/internal/errors"
)

// Convert transforms checker findings into LSP diagnostics for editor
// display. High-gravity findings surface as errors, suspected ones as
// warnings.
func Convert(findings []errors.Diagnostic) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(findings))
	for _, f := range findings {
		severity := protocol.DiagnosticSeverityWarning
		if f.Gravity == errors.GravityHigh {
			severity = protocol.DiagnosticSeverityError
		}
		endChar := uint32(f.End.Column - 1)
		if f.End == f.Start {
			endChar = uint32(f.Start.Column + 3) // Rough span for visibility
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(f.Start.Line - 1),   // Convert to 0-based indexing
					Character: uint32(f.Start.Column - 1), // Convert to 0-based indexing
				},
				End: protocol.Position{
					Line:      uint32(f.End.Line - 1),
					Character: endChar,
				},
			},
			Severity: ptrSeverity(severity),
			Source:   ptrString("adalyze"),
			Code:     &protocol.IntegerOrString{Value: string(f.Kind)},
			Message:  f.Message,
		})
	}
	return diagnostics
}

// parseErrorDiagnostic turns a textual IR parse failure into a diagnostic
// at the failing position.
func parseErrorDiagnostic(err error) protocol.Diagnostic {
	line, col := 1, 1
	message := err.Error()
	if pe, ok := err.(participle.Error); ok {
		pos := pe.Position()
		line, col = pos.Line, pos.Column
		message = pe.Message()
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line - 1), Character: uint32(col - 1)},
			End:   protocol.Position{Line: uint32(line - 1), Character: uint32(col + 3)},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("adalyze-parser"),
		Message:  message,
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
