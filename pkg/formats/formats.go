// Package formats provides parsers for Wavefront OBJ geometry and MTL
// material library files.
//
// The parsers are purely syntactic: they produce attribute pools, faces and
// material blocks, and report the line of the first statement they cannot
// read. Resolving indices into vertices and materials into textures is left
// to the caller.
package formats
