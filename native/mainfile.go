package native

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const mainfileVersion = 1

// Project files are YAML documents. Objects and nodes refer to data blocks
// and sockets by name and index.
type mainfileDoc struct {
	Version   int           `yaml:"version"`
	Screen    Screen        `yaml:"screen"`
	Scene     sceneDoc      `yaml:"scene"`
	Objects   []objectDoc   `yaml:"objects"`
	Meshes    []meshDoc     `yaml:"meshes,omitempty"`
	Cameras   []*CameraData `yaml:"cameras,omitempty"`
	Lights    []*LightData  `yaml:"lights,omitempty"`
	Materials []*Material   `yaml:"materials,omitempty"`
	Images    []*Image      `yaml:"images,omitempty"`
}

type sceneDoc struct {
	Name         string         `yaml:"name"`
	FrameStart   int            `yaml:"frame_start"`
	FrameEnd     int            `yaml:"frame_end"`
	FrameCurrent int            `yaml:"frame_current"`
	Camera       string         `yaml:"camera,omitempty"`
	Active       string         `yaml:"active,omitempty"`
	Collection   []string       `yaml:"collection"`
	Render       RenderSettings `yaml:"render"`
	Cycles       CyclesSettings `yaml:"cycles"`
	ViewLayers   []*ViewLayer   `yaml:"view_layers"`
	World        worldDoc       `yaml:"world"`
	UseNodes     bool           `yaml:"use_nodes"`
	NodeTree     treeDoc        `yaml:"node_tree"`
}

type worldDoc struct {
	Name     string  `yaml:"name"`
	UseNodes bool    `yaml:"use_nodes"`
	NodeTree treeDoc `yaml:"node_tree"`
}

type objectDoc struct {
	Name               string         `yaml:"name"`
	Type               ObjectType     `yaml:"type"`
	Data               string         `yaml:"data,omitempty"`
	Location           [3]float64     `yaml:"location,flow"`
	Scale              [3]float64     `yaml:"scale,flow"`
	RotationMode       RotationMode   `yaml:"rotation_mode"`
	RotationQuaternion [4]float64     `yaml:"rotation_quaternion,flow"`
	RotationEuler      [3]float64     `yaml:"rotation_euler,flow"`
	Cycles             CyclesObject   `yaml:"cycles"`
	Selected           bool           `yaml:"selected,omitempty"`
	Animation          *AnimationData `yaml:"animation_data,omitempty"`
}

type meshDoc struct {
	Name      string       `yaml:"name"`
	Vertices  [][3]float64 `yaml:"vertices"`
	Edges     [][2]int     `yaml:"edges,omitempty"`
	Faces     [][]int      `yaml:"faces"`
	Smooth    bool         `yaml:"smooth,omitempty"`
	Materials []string     `yaml:"materials,omitempty"`
}

type treeDoc struct {
	Name  string    `yaml:"name"`
	Nodes []nodeDoc `yaml:"nodes"`
	Links []linkDoc `yaml:"links,omitempty"`
}

type nodeDoc struct {
	Name     string       `yaml:"name"`
	Type     string       `yaml:"type"`
	Label    string       `yaml:"label,omitempty"`
	Location [2]float64   `yaml:"location,flow"`
	Inputs   []socketDoc  `yaml:"inputs,omitempty"`
	Image    string       `yaml:"image,omitempty"`
	BasePath string       `yaml:"base_path,omitempty"`
	Format   *ImageFormat `yaml:"format,omitempty"`
}

type socketDoc struct {
	Name    string    `yaml:"name"`
	Default []float64 `yaml:"default,flow,omitempty"`
}

type linkDoc struct {
	FromNode   string `yaml:"from_node"`
	FromSocket int    `yaml:"from_socket"`
	ToNode     string `yaml:"to_node"`
	ToSocket   int    `yaml:"to_socket"`
}

// SaveMainfile writes the session to a project file at path. Preferences,
// engines and handlers are not part of a project.
func (c *Context) SaveMainfile(path string) error {
	out, err := yaml.Marshal(c.document())
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	c.log.Info("saved project", "path", path, "objects", len(c.Objects))
	return nil
}

// OpenMainfile replaces the session with the project file at path.
func (c *Context) OpenMainfile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc mainfileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMainfile, path, err)
	}
	if doc.Version != mainfileVersion {
		return fmt.Errorf("%w: %s: version %d", ErrMainfile, path, doc.Version)
	}
	if err := c.load(&doc); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	c.log.Info("opened project", "path", path, "objects", len(c.Objects))
	return nil
}

func (c *Context) document() *mainfileDoc {
	s := c.Scene
	doc := &mainfileDoc{
		Version:   mainfileVersion,
		Screen:    c.Screen,
		Cameras:   c.Cameras,
		Lights:    c.Lights,
		Materials: c.Materials,
		Images:    c.Images,
		Scene: sceneDoc{
			Name:         s.Name,
			FrameStart:   s.FrameStart,
			FrameEnd:     s.FrameEnd,
			FrameCurrent: s.FrameCurrent,
			Render:       s.Render,
			Cycles:       s.Cycles,
			ViewLayers:   s.ViewLayers,
			World:        worldDoc{Name: s.World.Name, UseNodes: s.World.UseNodes, NodeTree: treeDocument(s.World.NodeTree)},
			UseNodes:     s.UseNodes,
			NodeTree:     treeDocument(s.NodeTree),
		},
	}
	if s.Camera != nil {
		doc.Scene.Camera = s.Camera.Name
	}
	if c.active != nil {
		doc.Scene.Active = c.active.Name
	}
	for _, o := range s.Collection.Objects {
		doc.Scene.Collection = append(doc.Scene.Collection, o.Name)
	}
	for _, m := range c.Meshes {
		md := meshDoc{Name: m.Name, Edges: m.Edges, Faces: m.Faces, Smooth: m.Smooth}
		for _, v := range m.Vertices {
			md.Vertices = append(md.Vertices, v)
		}
		for _, mat := range m.Materials {
			md.Materials = append(md.Materials, mat.Name)
		}
		doc.Meshes = append(doc.Meshes, md)
	}
	for _, o := range c.Objects {
		q := o.RotationQuaternion
		od := objectDoc{
			Name:               o.Name,
			Type:               o.Type,
			Location:           o.Location,
			Scale:              o.Scale,
			RotationMode:       o.RotationMode,
			RotationQuaternion: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
			RotationEuler:      o.RotationEuler,
			Cycles:             o.Cycles,
			Selected:           o.selected,
			Animation:          o.Animation,
		}
		switch {
		case o.Mesh != nil:
			od.Data = o.Mesh.Name
		case o.Camera != nil:
			od.Data = o.Camera.Name
		case o.Light != nil:
			od.Data = o.Light.Name
		}
		doc.Objects = append(doc.Objects, od)
	}
	return doc
}

func treeDocument(t *NodeTree) treeDoc {
	td := treeDoc{Name: t.Name}
	for _, n := range t.Nodes {
		nd := nodeDoc{Name: n.Name, Type: n.Type, Label: n.Label, Location: n.Location, BasePath: n.BasePath}
		for _, in := range n.Inputs {
			nd.Inputs = append(nd.Inputs, socketDoc{Name: in.Name, Default: in.DefaultValue})
		}
		if n.Image != nil {
			nd.Image = n.Image.Name
		}
		if n.Type == NodeOutputFile {
			f := n.Format
			nd.Format = &f
		}
		td.Nodes = append(td.Nodes, nd)
	}
	for _, l := range t.Links {
		td.Links = append(td.Links, linkDoc{
			FromNode:   l.From.Node().Name,
			FromSocket: l.From.Index(),
			ToNode:     l.To.Node().Name,
			ToSocket:   l.To.Index(),
		})
	}
	return td
}

func (c *Context) load(doc *mainfileDoc) error {
	c.Objects, c.Meshes, c.active, c.result = nil, nil, nil, nil
	c.Cameras, c.Lights, c.Materials, c.Images = doc.Cameras, doc.Lights, doc.Materials, doc.Images
	c.Screen = doc.Screen

	for _, md := range doc.Meshes {
		m := &MeshData{Name: md.Name, Smooth: md.Smooth}
		verts := make([]mgl64.Vec3, len(md.Vertices))
		for i, v := range md.Vertices {
			verts[i] = v
		}
		if err := m.FromPydata(verts, md.Edges, md.Faces); err != nil {
			return fmt.Errorf("mesh %q: %w", md.Name, err)
		}
		for _, name := range md.Materials {
			mat := c.Material(name)
			if mat == nil {
				return fmt.Errorf("%w: mesh %q uses unknown material %q", ErrMainfile, md.Name, name)
			}
			m.Materials = append(m.Materials, mat)
		}
		c.Meshes = append(c.Meshes, m)
	}

	for _, od := range doc.Objects {
		o := newObject(c, od.Name, od.Type)
		o.Location = od.Location
		o.Scale = od.Scale
		o.RotationMode = od.RotationMode
		o.RotationQuaternion = mgl64.Quat{W: od.RotationQuaternion[0], V: mgl64.Vec3{od.RotationQuaternion[1], od.RotationQuaternion[2], od.RotationQuaternion[3]}}
		o.RotationEuler = od.RotationEuler
		o.Cycles = od.Cycles
		o.selected = od.Selected
		o.Animation = od.Animation
		if err := c.bindData(o, od.Data); err != nil {
			return err
		}
		c.Objects = append(c.Objects, o)
	}

	sd := doc.Scene
	s := &Scene{
		Name:         sd.Name,
		FrameStart:   sd.FrameStart,
		FrameEnd:     sd.FrameEnd,
		FrameCurrent: sd.FrameCurrent,
		Collection:   &Collection{Name: "Scene Collection"},
		Render:       sd.Render,
		Cycles:       sd.Cycles,
		ViewLayers:   sd.ViewLayers,
		World:        &World{Name: sd.World.Name, UseNodes: sd.World.UseNodes},
		UseNodes:     sd.UseNodes,
	}
	for _, name := range sd.Collection {
		o := c.Object(name)
		if o == nil {
			return fmt.Errorf("%w: collection names unknown object %q", ErrMainfile, name)
		}
		if err := s.Collection.Link(o); err != nil {
			return err
		}
	}
	if sd.Camera != "" {
		if s.Camera = c.Object(sd.Camera); s.Camera == nil {
			return fmt.Errorf("%w: unknown camera %q", ErrMainfile, sd.Camera)
		}
	}
	c.active = c.Object(sd.Active)

	var err error
	if s.World.NodeTree, err = c.loadTree(sd.World.NodeTree); err != nil {
		return err
	}
	if s.NodeTree, err = c.loadTree(sd.NodeTree); err != nil {
		return err
	}
	c.Scene = s
	return nil
}

func (c *Context) bindData(o *Object, name string) error {
	if o.Type == ObjectEmpty {
		return nil
	}
	switch o.Type {
	case ObjectMesh:
		for _, m := range c.Meshes {
			if m.Name == name {
				o.Mesh = m
				return nil
			}
		}
	case ObjectCamera:
		for _, cd := range c.Cameras {
			if cd.Name == name {
				o.Camera = cd
				return nil
			}
		}
	case ObjectLight:
		for _, ld := range c.Lights {
			if ld.Name == name {
				o.Light = ld
				return nil
			}
		}
	}
	return fmt.Errorf("%w: object %q references unknown %s data %q", ErrMainfile, o.Name, o.Type, name)
}

func (c *Context) loadTree(td treeDoc) (*NodeTree, error) {
	t := &NodeTree{Name: td.Name}
	for _, nd := range td.Nodes {
		n, err := t.NewNode(nd.Type)
		if err != nil {
			return nil, err
		}
		n.Name, n.Label, n.Location, n.BasePath = nd.Name, nd.Label, nd.Location, nd.BasePath
		if nd.Format != nil {
			n.Format = *nd.Format
		}
		if nd.Type == NodeOutputFile {
			n.ClearFileSlots()
			for _, sd := range nd.Inputs {
				if _, err := n.NewFileSlot(sd.Name); err != nil {
					return nil, err
				}
			}
		}
		for i, sd := range nd.Inputs {
			if i < len(n.Inputs) && sd.Default != nil {
				n.Inputs[i].DefaultValue = sd.Default
			}
		}
		if nd.Image != "" {
			for _, im := range c.Images {
				if im.Name == nd.Image {
					n.Image = im
				}
			}
			if n.Image == nil {
				return nil, fmt.Errorf("%w: node %q uses unknown image %q", ErrMainfile, nd.Name, nd.Image)
			}
		}
	}
	for _, ld := range td.Links {
		from, to := t.Node(ld.FromNode), t.Node(ld.ToNode)
		if from == nil || to == nil || ld.FromSocket < 0 || ld.FromSocket >= len(from.Outputs) || ld.ToSocket < 0 || ld.ToSocket >= len(to.Inputs) {
			return nil, fmt.Errorf("%w: bad link %s[%d] -> %s[%d] in %q", ErrMainfile, ld.FromNode, ld.FromSocket, ld.ToNode, ld.ToSocket, td.Name)
		}
		if _, err := t.NewLink(from.Outputs[ld.FromSocket], to.Inputs[ld.ToSocket]); err != nil {
			return nil, err
		}
	}
	return t, nil
}
