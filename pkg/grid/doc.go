// Package grid turns a declarative hyperparameter space into job specs.
//
// A Grid is an ordered sequence of named axes combined by full cartesian
// product. Expansion is lazy and restartable: a Cursor walks the product in
// the fixed nested order the axes were declared, with the outermost axis
// varying slowest. Axes and method descriptors may be gated to a single
// phase and are dropped from expansion when the run phase does not match.
package grid
