package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T) *services.ControllerRuntime {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	runtime, err := services.NewControllerRuntime(sqlDB, 4, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(runtime.Close)
	return runtime
}

func controllerArtifact(id uint64, content string) *models.CodeArtifact {
	return &models.CodeArtifact{
		ArtifactID:     id,
		PluginID:       "p1",
		Kind:           models.ArtifactKindController,
		ControllerName: "test",
		Content:        content,
		UpdatedAt:      time.Now(),
	}
}

func TestInvokeEvaluatesExpression(t *testing.T) {
	runtime := newRuntime(t)

	result := runtime.Invoke(context.Background(), controllerArtifact(1, `1 + 2`), nil)
	require.Nil(t, result.Error)
	assert.Equal(t, 3, result.Value)
	assert.GreaterOrEqual(t, result.DurationMs, int64(0))
}

func TestInvokeBindsRequest(t *testing.T) {
	runtime := newRuntime(t)

	result := runtime.Invoke(context.Background(), controllerArtifact(2, `request.query.sku`),
		&services.ControllerRequest{
			StoreID: "store-1",
			Query:   map[string]string{"sku": "A-100"},
		})
	require.Nil(t, result.Error)
	assert.Equal(t, "A-100", result.Value)
}

func TestInvokeCollectsLogs(t *testing.T) {
	runtime := newRuntime(t)

	result := runtime.Invoke(context.Background(), controllerArtifact(3, `log("checking stock")`), nil)
	require.Nil(t, result.Error)
	assert.Equal(t, []string{"checking stock"}, result.Logs)
}

func TestInvokeCompileFailure(t *testing.T) {
	runtime := newRuntime(t)

	result := runtime.Invoke(context.Background(), controllerArtifact(4, `((`), nil)
	require.NotNil(t, result.Error)
	assert.Equal(t, types.CodeControllerExecution, result.Error.Code)
	assert.Nil(t, result.Value)
}

func TestInvokeRuntimeFailureStaysInResult(t *testing.T) {
	runtime := newRuntime(t)

	result := runtime.Invoke(context.Background(), controllerArtifact(5, `1 % 0`), nil)
	require.NotNil(t, result.Error)
	assert.Equal(t, types.CodeControllerExecution, result.Error.Code)
}

func TestInvokeNonFiniteValueFails(t *testing.T) {
	runtime := newRuntime(t)

	// Division is float division, so this evaluates to +Inf rather than
	// erroring; the runtime must refuse the unencodable value.
	result := runtime.Invoke(context.Background(), controllerArtifact(9, `1 / 0`), nil)
	require.NotNil(t, result.Error)
	assert.Equal(t, types.CodeControllerExecution, result.Error.Code)
	assert.Nil(t, result.Value)
}

func TestInvokeTimeout(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	runtime, err := services.NewControllerRuntime(sqlDB, 2, 100*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(runtime.Close)

	// Hold the single pooled connection so the query capability blocks past
	// the invocation deadline.
	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	result := runtime.Invoke(context.Background(), controllerArtifact(8, `query("SELECT 1")`), nil)
	require.NotNil(t, result.Error)
	assert.Equal(t, types.CodeControllerExecution, result.Error.Code)
	assert.Contains(t, result.Error.Message, "timed out")
}

func TestInvokeQueryCapability(t *testing.T) {
	runtime := newRuntime(t)

	result := runtime.Invoke(context.Background(),
		controllerArtifact(6, `query("SELECT 41 + 1 AS answer")`), nil)
	require.Nil(t, result.Error)

	rows, ok := result.Value.([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 42, rows[0]["answer"])
}

func TestRecompileAfterUpdate(t *testing.T) {
	runtime := newRuntime(t)

	artifact := controllerArtifact(7, `"old"`)
	result := runtime.Invoke(context.Background(), artifact, nil)
	require.Nil(t, result.Error)
	assert.Equal(t, "old", result.Value)

	// A redeploy bumps UpdatedAt, which must invalidate the program cache.
	artifact.Content = `"new"`
	artifact.UpdatedAt = artifact.UpdatedAt.Add(time.Second)
	result = runtime.Invoke(context.Background(), artifact, nil)
	require.Nil(t, result.Error)
	assert.Equal(t, "new", result.Value)
}
