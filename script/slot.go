package script

import (
	"context"
	"log/slog"
)

// Handler returns a slot handler that executes the named script each time a
// connected signal fires. The payload is exposed to the script as the
// "payload" variable. Script failures are logged rather than propagated:
// slot handlers have no error path back to the emitter.
func Handler[T any](engine *Engine, name string) func(T) {
	return func(payload T) {
		output, err := engine.Execute(context.Background(), name, map[string]any{
			"payload": payload,
		})
		if err != nil {
			slog.Error("Scripted slot failed", "script", name, "error", err)
			return
		}

		slog.Debug("Scripted slot finished",
			"script", name,
			"result", output.Result,
			"execution_time", output.Metrics.ExecutionTime,
		)
	}
}
