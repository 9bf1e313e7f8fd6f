package lsp

import (
	"encoding/json"
)

// ClientFeatures are the LSP 3.17 client capabilities glsp's 3.16 structs cannot carry
type ClientFeatures struct {
	// PullDiagnostics is set when the client declares textDocument.diagnostic
	PullDiagnostics bool
	// DiagnosticRefresh is set when the client accepts workspace/diagnostic/refresh
	DiagnosticRefresh bool
}

// DetectClientFeatures reads the 3.17 capabilities from raw initialize params.
// Unparseable params yield the zero value, which selects push diagnostics.
func DetectClientFeatures(rawParams json.RawMessage) ClientFeatures {
	var initParams struct {
		Capabilities struct {
			TextDocument *struct {
				Diagnostic *json.RawMessage `json:"diagnostic"`
			} `json:"textDocument"`
			Workspace *struct {
				Diagnostics *struct {
					RefreshSupport bool `json:"refreshSupport"`
				} `json:"diagnostics"`
			} `json:"workspace"`
		} `json:"capabilities"`
	}

	if err := json.Unmarshal(rawParams, &initParams); err != nil {
		return ClientFeatures{}
	}

	var features ClientFeatures
	caps := initParams.Capabilities
	// Presence alone counts, even as null or {}
	if caps.TextDocument != nil && caps.TextDocument.Diagnostic != nil {
		features.PullDiagnostics = true
	}
	if caps.Workspace != nil && caps.Workspace.Diagnostics != nil {
		features.DiagnosticRefresh = caps.Workspace.Diagnostics.RefreshSupport
	}
	return features
}
