package server

import (
	"fmt"
	"math/rand/v2"

	"github.com/gofiber/fiber/v2"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/dataset"
	"github.com/hupe1980/lloyd/model"
	"github.com/hupe1980/lloyd/resource"
)

// sessionRequest carries the session configuration and the point set.
type sessionRequest struct {
	Data       [][]float64 `json:"data"`
	NClusters  int         `json:"n_clusters"`
	InitMethod string      `json:"init_method"`
	MaxIters   *int        `json:"max_iters,omitempty"`
	Tolerance  *float64    `json:"tolerance,omitempty"`
	Seed       *uint64     `json:"seed,omitempty"`
	Centroids  [][]float64 `json:"centroids,omitempty"`
}

type clusterResponse struct {
	Centroids  model.Matrix `json:"centroids"`
	Labels     model.Labels `json:"labels"`
	Iterations int          `json:"iterations"`
	Converged  bool         `json:"converged"`
	State      lloyd.State  `json:"state"`
	Inertia    float64      `json:"inertia"`
}

type stepRequest struct {
	SessionID string `json:"session_id,omitempty"`
	sessionRequest
}

type stepResponse struct {
	SessionID string       `json:"session_id"`
	Created   bool         `json:"created"`
	Centroids model.Matrix `json:"centroids"`
	Labels    model.Labels `json:"labels"`
	Converged bool         `json:"converged"`
	Iteration int          `json:"iteration"`
	State     lloyd.State  `json:"state"`
	Inertia   float64      `json:"inertia"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	lloyd.Snapshot
}

type generateRequest struct {
	NumPoints int      `json:"num_points"`
	Dim       *int     `json:"dim,omitempty"`
	Low       *float64 `json:"low,omitempty"`
	High      *float64 `json:"high,omitempty"`
	Blobs     int      `json:"blobs,omitempty"`
	StdDev    *float64 `json:"stddev,omitempty"`
	Seed      *uint64  `json:"seed,omitempty"`
}

func (s *Server) decode(c *fiber.Ctx, v any) error {
	if err := s.codec.Unmarshal(c.Body(), v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// parseSession resolves a request into registry parameters, session options
// and the point set. K and iteration bounds are validated by lloyd.NewSession.
func (s *Server) parseSession(req sessionRequest) (sessionParams, []lloyd.Option, model.Matrix, error) {
	strategy, err := lloyd.ParseStrategy(req.InitMethod)
	if err != nil {
		return sessionParams{}, nil, nil, err
	}
	if n := len(req.Data); n > s.cfg.Limits.MaxPoints {
		return sessionParams{}, nil, nil, fmt.Errorf("%w: %d points exceed the limit of %d", ErrBadRequest, n, s.cfg.Limits.MaxPoints)
	}
	if len(req.Data) > 0 && len(req.Data[0]) > s.cfg.Limits.MaxDim {
		return sessionParams{}, nil, nil, fmt.Errorf("%w: dimension %d exceeds the limit of %d", ErrBadRequest, len(req.Data[0]), s.cfg.Limits.MaxDim)
	}
	if req.NClusters > s.cfg.Limits.MaxClusters {
		return sessionParams{}, nil, nil, fmt.Errorf("%w: %d clusters exceed the limit of %d", ErrBadRequest, req.NClusters, s.cfg.Limits.MaxClusters)
	}

	p := sessionParams{
		K:             req.NClusters,
		Strategy:      strategy,
		MaxIterations: s.cfg.Sessions.MaxIterations,
	}
	if req.MaxIters != nil {
		p.MaxIterations = *req.MaxIters
	}

	tol := s.cfg.Sessions.Tolerance
	if req.Tolerance != nil {
		tol = *req.Tolerance
	}

	opts := []lloyd.Option{
		lloyd.WithMaxIterations(p.MaxIterations),
		lloyd.WithTolerance(tol),
		lloyd.WithMetricsCollector(s.metrics),
	}
	if req.Seed != nil {
		opts = append(opts, lloyd.WithSeed(*req.Seed))
	}
	if req.Centroids != nil {
		opts = append(opts, lloyd.WithInitialCentroids(model.FromRows(req.Centroids)))
	}

	return p, opts, model.FromRows(req.Data), nil
}

// admit reserves memory for an n×dim point set for the lifetime of the
// request.
func (s *Server) admit(n, dim int) (func(), error) {
	bytes := resource.PointSetBytes(n, dim)
	if !s.rc.TryAcquireMemory(bytes) {
		return nil, fmt.Errorf("%w: in-flight point sets exceed the memory limit", resource.ErrBusy)
	}
	return func() { s.rc.ReleaseMemory(bytes) }, nil
}

func (s *Server) handleCluster(c *fiber.Ctx) error {
	var req sessionRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}

	p, opts, points, err := s.parseSession(req)
	if err != nil {
		return err
	}

	release, err := s.admit(points.Len(), points.Dim())
	if err != nil {
		return err
	}
	defer release()

	sess, err := lloyd.NewSession(p.K, p.Strategy, append(opts, lloyd.WithLogger(s.logger))...)
	if err != nil {
		return err
	}

	if err := s.rc.AcquireFit(c.UserContext()); err != nil {
		return err
	}
	defer s.rc.ReleaseFit()

	labels, err := sess.Fit(points)
	if err != nil {
		return err
	}

	snap := sess.Snapshot()
	return c.JSON(clusterResponse{
		Centroids:  snap.Centroids,
		Labels:     labels,
		Iterations: snap.Iteration,
		Converged:  snap.State == lloyd.StateConverged,
		State:      snap.State,
		Inertia:    snap.Inertia,
	})
}

func (s *Server) handleStep(c *fiber.Ctx) error {
	var req stepRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}

	p, opts, points, err := s.parseSession(req.sessionRequest)
	if err != nil {
		return err
	}

	release, err := s.admit(points.Len(), points.Dim())
	if err != nil {
		return err
	}
	defer release()

	e, id, created, err := s.sessions.Acquire(req.SessionID, p, func(id string) (*lloyd.Session, error) {
		return lloyd.NewSession(p.K, p.Strategy, append(opts, lloyd.WithLogger(s.logger.WithSession(id)))...)
	})
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	labels, done, err := e.session.Step(points)
	if err != nil {
		return err
	}

	snap := e.session.Snapshot()
	return c.JSON(stepResponse{
		SessionID: id,
		Created:   created,
		Centroids: snap.Centroids,
		Labels:    labels,
		Converged: done,
		Iteration: snap.Iteration,
		State:     snap.State,
		Inertia:   snap.Inertia,
	})
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	id := c.Params("id")
	e, ok := s.sessions.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	snap := e.session.Snapshot()
	e.mu.Unlock()

	return c.JSON(sessionResponse{SessionID: id, Snapshot: snap})
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.sessions.Delete(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req generateRequest
	if err := s.decode(c, &req); err != nil {
		return err
	}

	spec := dataset.DefaultSpec(req.NumPoints)
	if req.Dim != nil {
		spec.Dim = *req.Dim
	}
	if req.Low != nil {
		spec.Low = *req.Low
	}
	if req.High != nil {
		spec.High = *req.High
	}
	if req.StdDev != nil {
		spec.StdDev = *req.StdDev
	}
	spec.Blobs = req.Blobs

	if err := spec.Validate(); err != nil {
		return err
	}
	if spec.NumPoints > s.cfg.Limits.MaxPoints {
		return fmt.Errorf("%w: %d points exceed the limit of %d", ErrBadRequest, spec.NumPoints, s.cfg.Limits.MaxPoints)
	}
	if spec.Dim > s.cfg.Limits.MaxDim {
		return fmt.Errorf("%w: dimension %d exceeds the limit of %d", ErrBadRequest, spec.Dim, s.cfg.Limits.MaxDim)
	}

	release, err := s.admit(spec.NumPoints, spec.Dim)
	if err != nil {
		return err
	}
	defer release()

	var rng *rand.Rand
	if req.Seed != nil {
		rng = rand.New(rand.NewPCG(*req.Seed, *req.Seed))
	}

	points, _, err := dataset.Generate(rng, spec)
	if err != nil {
		return err
	}
	return c.JSON(points)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
