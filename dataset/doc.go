// Package dataset generates synthetic point sets for demos and tests.
//
// Two shapes are supported: points drawn uniformly from an axis-aligned box
// (the default, [-10, 10] in two dimensions) and isotropic gaussian blobs
// around centers that are themselves drawn from the box.
package dataset
