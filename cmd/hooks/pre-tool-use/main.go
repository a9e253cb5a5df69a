// Package main provides the PreToolUse hook entry point: a tool call is
// pending the user's approval.
package main

import (
	"github.com/thebtf/beacon/pkg/hooks"
	"github.com/thebtf/beacon/pkg/models"
)

func main() {
	hooks.Run(models.KindApprovalNeeded)
}
