package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mathlingua/mlg/internal"
	"github.com/mathlingua/mlg/internal/types"
)

type mockRenderEngine struct {
	mock.Mock
}

func (m *mockRenderEngine) Run(filePath string) (internal.Result, error) {
	args := m.Called(filePath)
	return args.Get(0).(internal.Result), args.Error(1)
}

func (m *mockRenderEngine) RunSource(filename string, source []byte) internal.Result {
	args := m.Called(filename, source)
	return args.Get(0).(internal.Result)
}

func (m *mockRenderEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func createTempFiles(t *testing.T, dir string, fileNames ...string) []string {
	t.Helper()
	var paths []string
	for _, fileName := range fileNames {
		filePath := filepath.Join(dir, fileName)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(`X \set.in/ Y`), 0o644))
		paths = append(paths, filePath)
	}
	return paths
}

func resultFor(path string, line int, message string) internal.Result {
	return internal.Result{
		Issues: []types.Issue{{
			Rule:     types.RuleNoMatch,
			Filename: path,
			Message:  message,
			Severity: types.SeverityWarning,
			Start:    types.Position{Line: line, Column: 1},
			End:      types.Position{Line: line, Column: 11},
		}},
		Rendered: []types.Rendered{{File: path, Line: line, Source: `X \set.in/ Y`, Output: `X \in Y`}},
	}
}

func TestProcessFile(t *testing.T) {
	t.Parallel()
	expected := resultFor("test.mlgf", 1, "Test issue")

	mockEngine := new(mockRenderEngine)
	mockEngine.On("Run", "test.mlgf").Return(expected, nil)

	result, err := ProcessFile(mockEngine, "test.mlgf")
	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	mockEngine.AssertExpectations(t)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	ctx := context.Background()

	sources := []Source{
		{Name: "a", Content: []byte("a + b")},
		{Name: "b", Content: []byte("c + d")},
	}

	mockEngine := new(mockRenderEngine)
	mockEngine.On("RunSource", "a", []byte("a + b")).Return(resultFor("a", 1, "Test issue 1"))
	mockEngine.On("RunSource", "b", []byte("c + d")).Return(resultFor("b", 1, "Test issue 2"))

	result, err := ProcessSources(ctx, logger, mockEngine, sources, ProcessSource)
	assert.NoError(t, err)
	assert.Len(t, result.Issues, 2)
	assert.Len(t, result.Rendered, 2)
	mockEngine.AssertExpectations(t)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	ctx := context.Background()

	tempDir, err := os.MkdirTemp("", "test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	paths := createTempFiles(t, tempDir, "test1.mlgf", "nested/test2.mlgf", "notes.txt")

	mockEngine := new(mockRenderEngine)
	mockEngine.On("Run", paths[0]).Return(resultFor(paths[0], 1, "Test issue 1"), nil)
	mockEngine.On("Run", paths[1]).Return(resultFor(paths[1], 1, "Test issue 2"), nil)

	result, err := ProcessPath(ctx, logger, mockEngine, tempDir, ProcessFile)
	assert.NoError(t, err)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, paths[1], result.Issues[0].Filename)
	assert.Equal(t, paths[0], result.Issues[1].Filename)
	mockEngine.AssertExpectations(t)
	mockEngine.AssertNotCalled(t, "Run", paths[2])
}

func TestProcessPathSkipsFailedFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tempDir, err := os.MkdirTemp("", "test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	paths := createTempFiles(t, tempDir, "good.mlgf", "bad.mlgf")

	mockEngine := new(mockRenderEngine)
	mockEngine.On("Run", paths[0]).Return(resultFor(paths[0], 1, "ok"), nil)
	mockEngine.On("Run", paths[1]).Return(internal.Result{}, fmt.Errorf("boom"))

	result, err := ProcessPath(ctx, nil, mockEngine, tempDir, ProcessFile)
	assert.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, paths[0], result.Issues[0].Filename)
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tempDir, err := os.MkdirTemp("", "test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	paths := createTempFiles(t, tempDir, "one.mlgf", "other.txt")

	mockEngine := new(mockRenderEngine)
	mockEngine.On("Run", paths[0]).Return(resultFor(paths[0], 3, "single"), nil)

	result, err := ProcessPath(ctx, nil, mockEngine, paths[0], ProcessFile)
	assert.NoError(t, err)
	assert.Len(t, result.Issues, 1)

	result, err = ProcessPath(ctx, nil, mockEngine, paths[1], ProcessFile)
	assert.NoError(t, err)
	assert.Empty(t, result.Issues)

	_, err = ProcessPath(ctx, nil, mockEngine, filepath.Join(tempDir, "missing.mlgf"), ProcessFile)
	assert.Error(t, err)
	mockEngine.AssertExpectations(t)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	ctx := context.Background()

	tempDir, err := os.MkdirTemp("", "test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	paths := createTempFiles(t, tempDir, "b.mlgf", "a.mlgf")

	mockEngine := new(mockRenderEngine)
	mockEngine.On("Run", paths[0]).Return(resultFor(paths[0], 2, "Test issue 1"), nil)
	mockEngine.On("Run", paths[1]).Return(resultFor(paths[1], 1, "Test issue 2"), nil)

	result, err := ProcessFiles(ctx, logger, mockEngine, paths, ProcessFile)
	assert.NoError(t, err)
	require.Len(t, result.Rendered, 2)
	assert.Equal(t, paths[1], result.Rendered[0].File)
	assert.Equal(t, paths[0], result.Rendered[1].File)
	mockEngine.AssertExpectations(t)

	_, err = ProcessFiles(ctx, logger, mockEngine, []string{filepath.Join(tempDir, "missing")}, ProcessFile)
	assert.Error(t, err)
}

func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir, err := os.MkdirTemp("", "test_cancel")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	for i := 0; i < 10; i++ {
		createTempFiles(t, tempDir, fmt.Sprintf("test%d.mlgf", i))
	}

	engine, err := New("", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ProcessPath(ctx, nil, engine, tempDir, ProcessFile)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessWithRealEngine(t *testing.T) {
	t.Parallel()
	tempDir, err := os.MkdirTemp("", "test_real")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	paths := createTempFiles(t, tempDir, "sets.mlgf")

	engine, err := NewFromConfig(DefaultConfig(), nil)
	require.NoError(t, err)

	result, err := ProcessFiles(context.Background(), nil, engine, paths, ProcessFile)
	require.NoError(t, err)
	require.Len(t, result.Rendered, 1)
	assert.Equal(t, `X \in Y`, result.Rendered[0].Output)
	assert.Empty(t, result.Issues)
}
