// Package model defines the numeric types shared by the clustering engine,
// the dataset generators and the HTTP layer.
//
// # Types
//
//   - Vector: a single point or centroid (D float64 components)
//   - Matrix: an ordered set of vectors; used both for point sets and
//     centroid sets, where the row index is the cluster identity
//   - Labels: one cluster index per point, in point order
//
// Matrices are validated with Matrix.Validate before any computation and are
// never mutated by the engine; centroid matrices handed out are deep copies.
package model
