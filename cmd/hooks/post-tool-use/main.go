// Package main provides the PostToolUse hook entry point: a tool call
// finished.
package main

import (
	"github.com/thebtf/beacon/pkg/hooks"
	"github.com/thebtf/beacon/pkg/models"
)

func main() {
	hooks.Run(models.KindToolCompleted)
}
