// Package distance provides the Euclidean geometry used by the clustering
// engine. All kernels are backed by gonum's floats package.
//
// # Functions
//
//   - Euclidean: L2 distance between two vectors
//   - SquaredEuclidean: squared L2 distance (used for comparisons and kmeans++ weights)
//   - Displacement: L2 norm of the flattened difference of two centroid sets
//
// # Usage
//
//	d := distance.Euclidean(a, b)
//	moved := distance.Displacement(oldCentroids, newCentroids)
package distance
