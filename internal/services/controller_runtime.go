package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/types"
)

// ControllerRequest is the inbound request shape bound into a controller
// invocation.
type ControllerRequest struct {
	StoreID string                 `json:"storeId"`
	Params  map[string]string      `json:"params,omitempty"`
	Query   map[string]string      `json:"query,omitempty"`
	Body    map[string]interface{} `json:"body,omitempty"`
}

// ControllerResult is the structured outcome of one invocation. Execution
// failures land in Error; they never propagate as Go errors, so one
// misbehaving controller cannot take down a page resolution.
type ControllerResult struct {
	Value      interface{}        `json:"value,omitempty"`
	Logs       []string           `json:"logs,omitempty"`
	Error      *types.DomainError `json:"error,omitempty"`
	DurationMs int64              `json:"durationMs"`
}

// ControllerRuntime executes stored controller bodies under an explicit
// sandbox boundary: programs are compiled once and cached by artifact
// identity, bound to an enumerated capability set (parameterized query,
// request data, log), and run on a bounded worker pool with a per-invocation
// timeout. No ambient host access leaks into the environment.
type ControllerRuntime struct {
	sqlDB   *sql.DB
	pool    *ants.Pool
	cache   cmap.ConcurrentMap[string, compiledController]
	timeout time.Duration
}

// compiledController pairs a compiled program with the UpdatedAt stamp it was
// compiled from, so a redeploy replaces the entry instead of accreting keys.
type compiledController struct {
	stamp   int64
	program *vm.Program
}

// NewControllerRuntime builds a runtime over the data-access handle.
func NewControllerRuntime(sqlDB *sql.DB, poolSize int, timeout time.Duration) (*ControllerRuntime, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create controller pool: %w", err)
	}
	return &ControllerRuntime{
		sqlDB:   sqlDB,
		pool:    pool,
		cache:   cmap.New[compiledController](),
		timeout: timeout,
	}, nil
}

// Close releases the worker pool.
func (rt *ControllerRuntime) Close() {
	rt.pool.Release()
}

// compile returns the cached program for the artifact, compiling on first use.
// The cache is keyed by artifact id and stamped with UpdatedAt, so a
// redeployed controller recompiles and its stale program is evicted.
func (rt *ControllerRuntime) compile(artifact *models.CodeArtifact) (*vm.Program, error) {
	key := strconv.FormatUint(artifact.ArtifactID, 10)
	stamp := artifact.UpdatedAt.UnixNano()
	if entry, ok := rt.cache.Get(key); ok && entry.stamp == stamp {
		return entry.program, nil
	}
	program, err := expr.Compile(artifact.Content, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	rt.cache.Set(key, compiledController{stamp: stamp, program: program})
	return program, nil
}

type invocationOutcome struct {
	value interface{}
	logs  []string
	err   error
}

// Invoke runs the controller artifact against req. The timeout is fatal to
// this invocation only. If ctx is canceled while the controller runs, the
// worker is left to finish its external calls and the late result is
// discarded.
func (rt *ControllerRuntime) Invoke(ctx context.Context, artifact *models.CodeArtifact, req *ControllerRequest) *ControllerResult {
	started := time.Now()
	result := &ControllerResult{}

	fail := func(format string, args ...interface{}) *ControllerResult {
		result.Error = types.ControllerExecution(artifact.PluginID, artifact.ControllerName, format, args...)
		result.DurationMs = time.Since(started).Milliseconds()
		log.Printf("Controller %s/%s failed: %v", artifact.PluginID, artifact.ControllerName, result.Error)
		return result
	}

	program, err := rt.compile(artifact)
	if err != nil {
		return fail("compile failed: %v", err)
	}

	// The execution deadline is detached from the caller's context on purpose:
	// an aborted page request must not interrupt an in-flight external call.
	execCtx, cancel := context.WithTimeout(context.Background(), rt.timeout)
	defer cancel()

	env := rt.environment(execCtx, req)
	outcomeCh := make(chan invocationOutcome, 1)

	submitErr := rt.pool.Submit(func() {
		outcome := invocationOutcome{}
		defer func() {
			if r := recover(); r != nil {
				outcome.err = fmt.Errorf("panic: %v", r)
			}
			outcome.logs = env.logs()
			outcomeCh <- outcome
		}()
		outcome.value, outcome.err = expr.Run(program, env.vars)
	})
	if submitErr != nil {
		return fail("worker pool rejected invocation: %v", submitErr)
	}

	select {
	case outcome := <-outcomeCh:
		result.Logs = outcome.logs
		result.DurationMs = time.Since(started).Milliseconds()
		if outcome.err != nil {
			return fail("execution failed: %v", outcome.err)
		}
		// expr's / is float division, so 1 / 0 evaluates to +Inf instead of
		// erroring. Non-finite numbers have no JSON encoding.
		if f, ok := outcome.value.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return fail("execution produced a non-finite number %v", f)
		}
		result.Value = outcome.value
		return result
	case <-execCtx.Done():
		return fail("execution timed out after %s", rt.timeout)
	case <-ctx.Done():
		return fail("request aborted; controller result discarded")
	}
}

// controllerEnv is the enumerated capability set bound to one invocation.
// Only the worker goroutine touches logged; the caller receives logs through
// the outcome channel.
type controllerEnv struct {
	vars   map[string]interface{}
	logged []string
}

func (e *controllerEnv) logs() []string {
	return e.logged
}

func (rt *ControllerRuntime) environment(ctx context.Context, req *ControllerRequest) *controllerEnv {
	env := &controllerEnv{}

	requestMap := map[string]interface{}{
		"storeId": "",
		"params":  map[string]string{},
		"query":   map[string]string{},
		"body":    map[string]interface{}{},
	}
	if req != nil {
		requestMap["storeId"] = req.StoreID
		if req.Params != nil {
			requestMap["params"] = req.Params
		}
		if req.Query != nil {
			requestMap["query"] = req.Query
		}
		if req.Body != nil {
			requestMap["body"] = req.Body
		}
	}

	env.vars = map[string]interface{}{
		"request": requestMap,
		"log": func(args ...interface{}) bool {
			env.logged = append(env.logged, fmt.Sprint(args...))
			return true
		},
		"query": func(statement string, args ...interface{}) ([]map[string]interface{}, error) {
			return rt.runQuery(ctx, statement, args...)
		},
	}
	return env
}

// runQuery is the parameterized data-access capability. Placeholders only;
// controller code never concatenates values into SQL.
func (rt *ControllerRuntime) runQuery(ctx context.Context, statement string, args ...interface{}) ([]map[string]interface{}, error) {
	if rt.sqlDB == nil {
		return nil, fmt.Errorf("data access is not available to this controller")
	}

	rows, err := rt.sqlDB.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
