// Package stock describes the raw workpiece block being virtually machined
// and the configuration errors shared by the simulation engines.
package stock
