// Package kmeans implements the primitives of Lloyd's algorithm.
//
// The package is stateless: seeding (Initialize, Manual), the assignment
// step (Assign, Nearest), the update step (Update) and the convergence test
// (Converged) are pure functions over model matrices. The stateful session
// that composes them lives in the root lloyd package.
//
// None of the functions mutate their inputs. Centroid matrices returned are
// always freshly allocated.
package kmeans
