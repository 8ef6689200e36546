// Package nodegraph projects the kubric scene graph onto the native
// node-graph backend.
//
// Every constructor takes the [native.Context] the entity lives in, usually
// [Renderer.Context]. Constructors allocate the native object first, then
// run the kubric initializer, whose default transform is pushed straight
// into that object:
//
//	r, _ := nodegraph.NewRenderer(nodegraph.DefaultOptions())
//	ctx := r.Context()
//	scene, _ := nodegraph.NewScene(ctx)
//	cam, _ := nodegraph.NewPerspectiveCamera(ctx, "Camera", 35)
//	_ = scene.Add(cam)
//
// The backend creates objects the way its operators do, which differs from
// three.js in two places:
//
//   - Declaring a [BoxGeometry] or [PlaneGeometry] immediately adds a linked
//     object to the scene. The [Mesh] built from it adopts that object
//     rather than creating a second one.
//   - Meshes and imported objects are linked on creation; cameras and
//     lights are not until [Scene.Add].
//
// Pushing a property into an entity whose native object does not exist
// panics.
package nodegraph
