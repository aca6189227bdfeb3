package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Engine compiles and executes Tengo scripts from a registry under security
// limits. Host functions registered with Expose are available to every
// script, alongside a built-in "log" function that writes to the structured
// logger.
type Engine struct {
	registry *Registry
	limits   SecurityLimits
	exposed  map[string]tengo.CallableFunc
}

// NewEngine creates a new script engine with default security limits
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
		limits:   GetDefaultSecurityLimits(),
		exposed:  make(map[string]tengo.CallableFunc),
	}
}

// SetSecurityLimits updates the security limits for subsequent executions
func (e *Engine) SetSecurityLimits(limits SecurityLimits) {
	e.limits = limits
	slog.Debug("Updated script security limits",
		"max_execution_time", limits.MaxExecutionTime,
		"allowed_modules", limits.AllowedModules,
	)
}

// Expose registers a host function under the given name. Exposed functions
// must be registered before Execute; the engine does not synchronize access
// to them.
func (e *Engine) Expose(name string, fn tengo.CallableFunc) {
	e.exposed[name] = fn
	slog.Debug("Exposed host function to scripts", "function", name)
}

// Execute runs the named script with the given variables and returns its
// results. Variables that Tengo cannot hold directly (structs, typed maps)
// go through a JSON round trip so scripts can index their fields.
func (e *Engine) Execute(ctx context.Context, name string, vars map[string]any) (*Output, error) {
	script, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}

	tengoScript := tengo.NewScript([]byte(script.Content))
	tengoScript.SetImports(e.moduleMap())

	if err := e.setVariables(tengoScript, name, vars); err != nil {
		return nil, NewError(
			ErrorTypeExecution,
			name,
			"failed to set script variables",
			err,
		)
	}

	compileStart := time.Now()
	compiled, err := tengoScript.Compile()
	if err != nil {
		return nil, NewError(
			ErrorTypeCompilation,
			name,
			"failed to compile script",
			err,
		)
	}
	compilationTime := time.Since(compileStart)

	execCtx, cancel := context.WithTimeout(ctx, e.limits.MaxExecutionTime)
	defer cancel()

	// Run in a goroutine so timeouts and panics inside the script cannot
	// take the caller down.
	execStart := time.Now()
	resultChan := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- fmt.Errorf("script panic: %v", r)
			}
		}()
		resultChan <- compiled.Run()
	}()

	select {
	case err := <-resultChan:
		if err != nil {
			return nil, NewError(
				ErrorTypeExecution,
				name,
				"script execution failed",
				err,
			)
		}
	case <-execCtx.Done():
		return nil, NewError(
			ErrorTypeTimeout,
			name,
			"script execution timed out",
			execCtx.Err(),
		)
	}
	executionTime := time.Since(execStart)

	slog.Debug("Script executed successfully",
		"script", name,
		"compilation_time", compilationTime,
		"execution_time", executionTime,
	)

	return &Output{
		Result: extractResult(compiled),
		Logs:   extractLogs(compiled),
		Metrics: ExecutionMetrics{
			CompilationTime: compilationTime,
			ExecutionTime:   executionTime,
			Success:         true,
		},
	}, nil
}

// moduleMap builds the importable module set from the allowed module list.
func (e *Engine) moduleMap() *tengo.ModuleMap {
	modules := tengo.NewModuleMap()
	for _, name := range e.limits.AllowedModules {
		if module, exists := stdlib.BuiltinModules[name]; exists {
			modules.AddBuiltinModule(name, module)
		}
	}
	return modules
}

// setVariables adds caller variables, exposed host functions, and the log
// function to the script.
func (e *Engine) setVariables(tengoScript *tengo.Script, name string, vars map[string]any) error {
	for key, value := range vars {
		if err := tengoScript.Add(key, value); err != nil {
			converted, convErr := toScriptValue(value)
			if convErr != nil {
				return fmt.Errorf("failed to set variable %s: %w", key, err)
			}
			if err := tengoScript.Add(key, converted); err != nil {
				return fmt.Errorf("failed to set variable %s: %w", key, err)
			}
		}
	}

	for fnName, fn := range e.exposed {
		userFn := &tengo.UserFunction{Name: fnName, Value: fn}
		if err := tengoScript.Add(fnName, userFn); err != nil {
			return fmt.Errorf("failed to expose function %s: %w", fnName, err)
		}
	}

	logFn := &tengo.UserFunction{
		Name: "log",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			message, _ := tengo.ToString(args[0])
			slog.Info("Script log", "script", name, "message", message)
			return tengo.UndefinedValue, nil
		},
	}
	return tengoScript.Add("log", logFn)
}

// toScriptValue converts an arbitrary Go value into the maps, slices, and
// primitives Tengo accepts, via a JSON round trip.
func toScriptValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// extractResult extracts the "result" variable from an executed script.
func extractResult(compiled *tengo.Compiled) any {
	if result := compiled.Get("result"); result != nil {
		return result.Value()
	}
	return nil
}

// extractLogs extracts the "logs" variable that scripts may use to collect
// log messages.
func extractLogs(compiled *tengo.Compiled) []string {
	logsVar := compiled.Get("logs")
	if logsVar == nil {
		return []string{}
	}

	logs, ok := logsVar.Value().([]interface{})
	if !ok {
		return []string{}
	}

	stringLogs := make([]string, len(logs))
	for i, log := range logs {
		stringLogs[i] = fmt.Sprintf("%v", log)
	}
	return stringLogs
}
