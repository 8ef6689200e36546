// Package kubric is a three.js-style scene graph for rendering synthetic
// video datasets.
//
// The package describes 3D objects, cameras, lights, geometries and materials
// independently of any renderer. A backend (see package nodegraph) projects
// every type onto its own native state: backend types embed the state structs
// defined here and receive each validated property write through a
// [Binding].
//
// # Two-phase writes
//
// Every setter first validates and stores the new value, then pushes the
// stored value to the entity's Binding:
//
//	cam, _ := nodegraph.NewPerspectiveCamera(ctx, "Camera", 35)
//	cam.SetPosition(mgl64.Vec3{7.5, -6.5, 4.5}) // stored, then pushed
//	cam.LookAt(0, 0, 0)
//
// A value that fails validation is neither stored nor pushed. Entities built
// directly from this package have no backend; their Binding is [Unbound].
//
// # Keyframes
//
// [Object3D.KeyframeInsert] records the stored value of position, quaternion
// or scale at a frame. Driving an animation is a loop of set then keyframe:
//
//	for f := start; f < end; f++ {
//		obj.SetPosition(sim.Position[f])
//		obj.SetQuaternion(kubric.QuatFromXYZW(sim.Orientation[f]))
//		obj.KeyframeInsert("position", f)
//		obj.KeyframeInsert("quaternion", f)
//	}
//
// # Quaternions
//
// Quaternions are [mgl64.Quat] values (scalar W plus vector part). Physics
// simulators usually exchange them as XYZW arrays; [QuatFromXYZW] and [XYZW]
// convert at that boundary.
//
// # Rendering
//
// A [Renderer] configures output size, world background and multi-layer EXR
// output, then renders a scene through a camera to a path whose suffix picks
// the output: a project file, a movie, a still or an image sequence.
//
// # Logging
//
// The package and its backends log through [Logger]. Logging is silent until
// [SetLogger] installs a logger.
//
// # Concurrency
//
// Nothing here is safe for concurrent use. A backend's native state is one
// explicit context value shared by every entity created against it.
package kubric
