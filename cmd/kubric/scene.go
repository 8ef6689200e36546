package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/config"
	"github.com/phanxgames/kubric/internal/job"
	"github.com/phanxgames/kubric/nodegraph"
)

// Camera and light rig of the CLEVR dataset. Quaternions are WXYZ.
var (
	clevrCameraPosition = mgl64.Vec3{7.48113, -6.50764, 5.34367}
	clevrCameraRotation = [4]float64{0.7816, 0.481707, 0.212922, 0.334251}
	clevrSunPosition    = mgl64.Vec3{11.6608, -6.62799, 25.8232}
	clevrSunRotation    = [4]float64{0.971588, 0.105085, 0.210842, 0.022804}
)

type areaLamp struct {
	name      string
	color     uint32
	intensity float64
	size      float64
	position  mgl64.Vec3
}

var clevrLamps = []areaLamp{
	{"back", 0xffffff, 50, 1, mgl64.Vec3{-1.1685, 2.64602, 5.81574}},
	{"key", 0xffedd0, 100, 0.5, mgl64.Vec3{6.44671, -2.90517, 4.2584}},
	{"fill", 0xc2d0ff, 30, 0.5, mgl64.Vec3{-4.67112, -4.0136, 3.01122}},
}

// stage is a scene ready to render.
type stage struct {
	renderer *nodegraph.Renderer
	scene    *nodegraph.Scene
	camera   *nodegraph.PerspectiveCamera
}

// build sets up the renderer and lays out j under the CLEVR rig, keyframing
// every object for frames [FrameStart, FrameEnd).
func build(cfg config.Config, j *job.Job) (*stage, error) {
	log := kubric.Logger()
	r, err := nodegraph.NewRenderer(cfg.RendererOptions())
	if err != nil {
		return nil, err
	}
	if err := r.SetSize(cfg.Render.Resolution, cfg.Render.Resolution); err != nil {
		return nil, err
	}
	ctx := r.Context()
	scene, err := nodegraph.NewScene(ctx)
	if err != nil {
		return nil, err
	}
	ctx.Scene.Render.FPS = cfg.Scene.FrameRate
	if err := scene.SetFrameRange(cfg.Scene.FrameStart, cfg.Scene.FrameEnd); err != nil {
		return nil, err
	}

	r.SetBackgroundTransparent(cfg.Output.Transparent)
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	if bg != nil {
		if err := r.SetUpBackground(kubric.BackgroundOptions{Color: bg}); err != nil {
			return nil, err
		}
	}
	if cfg.Output.EXR != "" {
		if err := r.SetUpEXROutput(cfg.Output.EXR); err != nil {
			return nil, err
		}
	}

	cam, err := rig(r, scene)
	if err != nil {
		return nil, err
	}

	floor, err := scene.AddFromFile(j.Floor.Path, kubric.ImportOptions{Name: j.Floor.UID})
	if err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}
	if err := place(floor.Object(), &j.Floor); err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}

	for i := range j.Objects {
		o := &j.Objects[i]
		obj, err := scene.AddFromFile(o.Path, kubric.ImportOptions{Name: o.UID})
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", o.UID, err)
		}
		if err := place(obj.Object(), &o.Asset); err != nil {
			return nil, fmt.Errorf("object %s: %w", o.UID, err)
		}
		if err := animate(obj.Object(), o, cfg.Scene.FrameStart, cfg.Scene.FrameEnd); err != nil {
			return nil, fmt.Errorf("object %s: %w", o.UID, err)
		}
	}
	log.Info("scene built", "objects", len(j.Objects), "frames", cfg.Scene.FrameEnd-cfg.Scene.FrameStart)
	return &stage{renderer: r, scene: scene, camera: cam}, nil
}

// rig adds the CLEVR camera, sun and three area lamps aimed at the origin.
func rig(r *nodegraph.Renderer, scene *nodegraph.Scene) (*nodegraph.PerspectiveCamera, error) {
	ctx := r.Context()
	cam, err := nodegraph.NewPerspectiveCamera(ctx, "Camera", 35)
	if err != nil {
		return nil, err
	}
	if err := cam.SetSensorWidth(32); err != nil {
		return nil, err
	}
	if err := pose(cam.Object(), clevrCameraPosition, kubric.QuatFromWXYZ(clevrCameraRotation)); err != nil {
		return nil, err
	}
	if err := scene.Add(cam); err != nil {
		return nil, err
	}

	sun, err := nodegraph.NewDirectionalLight(ctx, kubric.ColorWhite, 0.45)
	if err != nil {
		return nil, err
	}
	if err := sun.SetShadowSoftness(0.2); err != nil {
		return nil, err
	}
	if err := pose(sun.Object(), clevrSunPosition, kubric.QuatFromWXYZ(clevrSunRotation)); err != nil {
		return nil, err
	}
	if err := scene.Add(sun); err != nil {
		return nil, err
	}

	for _, l := range clevrLamps {
		lamp, err := nodegraph.NewRectAreaLight(ctx, kubric.Hex(l.color), l.intensity, l.size, l.size)
		if err != nil {
			return nil, fmt.Errorf("lamp %s: %w", l.name, err)
		}
		if err := lamp.SetPosition(l.position); err != nil {
			return nil, err
		}
		if err := lamp.LookAt(0, 0, 0); err != nil {
			return nil, err
		}
		if err := scene.Add(lamp); err != nil {
			return nil, err
		}
	}
	return cam, nil
}

func pose(o *kubric.Object3D, p mgl64.Vec3, q mgl64.Quat) error {
	if err := o.SetPosition(p); err != nil {
		return err
	}
	return o.SetQuaternion(q)
}

func place(o *kubric.Object3D, a *job.Asset) error {
	p, q := a.Placement()
	return pose(o, p, q)
}

func animate(o *kubric.Object3D, obj *job.Object, start, end int) error {
	for f := start; f < end; f++ {
		p, q := obj.Pose(f)
		if err := pose(o, p, q); err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
		if err := o.KeyframeInsert("position", f); err != nil {
			return err
		}
		if err := o.KeyframeInsert("quaternion", f); err != nil {
			return err
		}
	}
	return nil
}
