// Package native is the node-graph render backend that the kubric adapter
// drives.
//
// It models the state a keyframed production renderer keeps for one scene:
// objects and the data blocks they reference (meshes, cameras, lights,
// materials, images), per-property animation curves, world and compositor
// node trees, render settings and the operators that mutate all of it
// (primitive creation, mesh import, shading, frame evaluation, render,
// project save and load).
//
// The process-wide state of such a renderer is an explicit [Context] value
// here. A Context is not safe for concurrent use; every operator runs
// synchronously and returns only after the backend state is updated.
//
// Operators mirror the renderer's object-creation semantics, including the
// ones that surprise callers: primitive operators allocate, link, select and
// activate a new object immediately, while [Context.NewObject] allocates an
// object that is not part of the scene until linked.
//
// Pixels are produced by a pluggable [Engine]; movies are produced by a
// pluggable [Encoder].
package native
