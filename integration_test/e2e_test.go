package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lloyd/config"
	"github.com/hupe1980/lloyd/server"
	"github.com/hupe1980/lloyd/testutil"
)

type client struct {
	t   *testing.T
	srv *server.Server
}

func (c client) post(path string, body any, out any) int {
	c.t.Helper()

	b, err := json.Marshal(body)
	require.NoError(c.t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.srv.App().Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(c.t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

type stepResult struct {
	SessionID string      `json:"session_id"`
	Centroids [][]float64 `json:"centroids"`
	Labels    []int       `json:"labels"`
	Converged bool        `json:"converged"`
	Iteration int         `json:"iteration"`
	State     string      `json:"state"`
}

type clusterResult struct {
	Centroids  [][]float64 `json:"centroids"`
	Labels     []int       `json:"labels"`
	Iterations int         `json:"iterations"`
	State      string      `json:"state"`
}

// TestE2E_GenerateStepCluster drives the same flow as the visualization UI:
// generate data, step until done, then cluster in one call.
func TestE2E_GenerateStepCluster(t *testing.T) {
	srv, err := server.New(config.Default())
	require.NoError(t, err)
	c := client{t: t, srv: srv}

	var data [][]float64
	require.Equal(t, http.StatusOK, c.post("/generate_data", map[string]any{"num_points": 200, "blobs": 4, "seed": 11}, &data))
	require.Len(t, data, 200)

	const k, maxIters = 4, 30
	req := map[string]any{
		"data":        data,
		"n_clusters":  k,
		"init_method": "kmeans++",
		"max_iters":   maxIters,
		"seed":        5,
	}

	var res stepResult
	require.Equal(t, http.StatusOK, c.post("/step_kmeans", req, &res))
	require.False(t, res.Converged)
	req["session_id"] = res.SessionID

	calls := 0
	for !res.Converged {
		calls++
		require.LessOrEqual(t, calls, maxIters)
		require.Equal(t, http.StatusOK, c.post("/step_kmeans", req, &res))

		require.Len(t, res.Labels, len(data))
		require.Len(t, res.Centroids, k)
		for _, l := range res.Labels {
			require.True(t, l >= 0 && l < k)
		}
	}
	assert.Contains(t, []string{"converged", "exhausted"}, res.State)
	assert.Equal(t, http.StatusConflict, c.post("/step_kmeans", req, nil))

	// Clustering the same data with the same seed reaches the same partition.
	var full clusterResult
	delete(req, "session_id")
	require.Equal(t, http.StatusOK, c.post("/cluster", req, &full))
	assert.Equal(t, res.State, full.State)
	assert.Equal(t, res.Iteration, full.Iterations)
	assert.True(t, testutil.SamePartition(res.Labels, full.Labels))
	assert.Equal(t, res.Centroids, full.Centroids)
}

func TestE2E_ConfigurationErrorLeavesSessionIntact(t *testing.T) {
	srv, err := server.New(config.Default())
	require.NoError(t, err)
	c := client{t: t, srv: srv}

	req := map[string]any{
		"data":        [][]float64{{0, 0}, {0, 1}, {10, 0}, {10, 1}},
		"n_clusters":  2,
		"init_method": "manual",
		"centroids":   [][]float64{{0, 0}, {10, 0}},
	}

	var res stepResult
	require.Equal(t, http.StatusOK, c.post("/step_kmeans", req, &res))
	req["session_id"] = res.SessionID

	bad := map[string]any{}
	for key, v := range req {
		bad[key] = v
	}
	bad["data"] = [][]float64{{0, 0, 0}}
	assert.Equal(t, http.StatusBadRequest, c.post("/step_kmeans", bad, nil))

	require.Equal(t, http.StatusOK, c.post("/step_kmeans", req, &res))
	assert.Equal(t, 1, res.Iteration)
	assert.Equal(t, [][]float64{{0, 0.5}, {10, 0.5}}, res.Centroids)
}
