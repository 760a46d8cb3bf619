// Package action resolves recognized gestures to configured shell
// commands and executes them.
package action

import (
	"github.com/Iron-Ham/tapd/internal/config"
	"github.com/Iron-Ham/tapd/internal/gesture"
)

// Resolve looks up the shell command bound to a gesture. It returns
// the command only when the gesture is configured, enabled, and has a
// non-empty action.
func Resolve(g gesture.Type, gestures map[string]config.GestureConfig) (string, bool) {
	gc, ok := gestures[g.String()]
	if !ok || !gc.Enabled || gc.Action == "" {
		return "", false
	}
	return gc.Action, true
}
