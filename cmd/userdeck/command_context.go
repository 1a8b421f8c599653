package main

import (
	"sync"

	"github.com/spf13/cobra"
)

// annotationStructuredLog marks commands whose failures are logged through slog.
const annotationStructuredLog = "userdeck/structured-log"

type commandExecutionContext struct {
	CommandPath       string
	UsesStructuredLog bool
}

var (
	executionMu  sync.RWMutex
	executionCtx commandExecutionContext
)

func setCommandExecutionContext(ctx commandExecutionContext) {
	executionMu.Lock()
	defer executionMu.Unlock()
	executionCtx = ctx
}

func resetCommandExecutionContext() {
	setCommandExecutionContext(commandExecutionContext{})
}

func currentCommandExecutionContext() commandExecutionContext {
	executionMu.RLock()
	defer executionMu.RUnlock()
	return executionCtx
}

// commandUsesStructuredLogging reports whether cmd, or a parent, is a
// long-running command that logs through slog.
func commandUsesStructuredLogging(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationStructuredLog] == "true" {
			return true
		}
	}
	return false
}

func structuredLog() map[string]string {
	return map[string]string{annotationStructuredLog: "true"}
}
