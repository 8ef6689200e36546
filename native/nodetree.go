package native

import (
	"fmt"
	"slices"
)

// SocketKind is the data type a socket carries.
type SocketKind string

const (
	SocketShader SocketKind = "SHADER"
	SocketColor  SocketKind = "RGBA"
	SocketFloat  SocketKind = "VALUE"
	SocketVector SocketKind = "VECTOR"
)

// Socket is a named input or output of a Node. DefaultValue is used when an
// input has no incoming link (1 component for floats, 3 for vectors, 4 for
// colors, none for shaders).
type Socket struct {
	Name         string
	Kind         SocketKind
	DefaultValue []float64

	node   *Node
	output bool
}

// Node returns the node that owns the socket.
func (s *Socket) Node() *Node { return s.node }

// IsOutput reports whether s is an output socket.
func (s *Socket) IsOutput() bool { return s.output }

// Index returns the socket's position among its node's inputs or outputs.
func (s *Socket) Index() int {
	if s.output {
		return slices.Index(s.node.Outputs, s)
	}
	return slices.Index(s.node.Inputs, s)
}

// ImageFormat is the file format of a compositor file-output node.
type ImageFormat struct {
	FileFormat string `yaml:"file_format"`
	ColorDepth string `yaml:"color_depth"`
}

// Node types in the built-in catalogue.
const (
	NodeOutputWorld    = "ShaderNodeOutputWorld"
	NodeBackground     = "ShaderNodeBackground"
	NodeTexCoord       = "ShaderNodeTexCoord"
	NodeMapping        = "ShaderNodeMapping"
	NodeTexEnvironment = "ShaderNodeTexEnvironment"
	NodeMixShader      = "ShaderNodeMixShader"
	NodeLightPath      = "ShaderNodeLightPath"
	NodeRenderLayers   = "CompositorNodeRLayers"
	NodeComposite      = "CompositorNodeComposite"
	NodeOutputFile     = "CompositorNodeOutputFile"
)

// Node is a shading or compositing node.
type Node struct {
	Name     string
	Type     string
	Label    string
	Location [2]float64
	Inputs   []*Socket
	Outputs  []*Socket

	// Image is the texture of an environment texture node.
	Image *Image
	// BasePath and Format configure a file-output node; its inputs are the
	// file slots.
	BasePath string
	Format   ImageFormat

	tree *NodeTree
}

// Input returns the first input socket named name, or nil.
func (n *Node) Input(name string) *Socket { return findSocket(n.Inputs, name) }

// Output returns the first output socket named name, or nil.
func (n *Node) Output(name string) *Socket { return findSocket(n.Outputs, name) }

func findSocket(sockets []*Socket, name string) *Socket {
	for _, s := range sockets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// NewFileSlot appends a file slot (an input socket) to a file-output node.
func (n *Node) NewFileSlot(name string) (*Socket, error) {
	if n.Type != NodeOutputFile {
		return nil, fmt.Errorf("%w: %s has no file slots", ErrUnknownNodeType, n.Type)
	}
	s := &Socket{Name: name, Kind: SocketColor, DefaultValue: []float64{0, 0, 0, 1}, node: n}
	n.Inputs = append(n.Inputs, s)
	return s, nil
}

// ClearFileSlots removes every file slot and the links feeding them.
func (n *Node) ClearFileSlots() {
	if n.tree != nil {
		for _, s := range n.Inputs {
			n.tree.unlink(s)
		}
	}
	n.Inputs = nil
}

type socketSpec struct {
	name string
	kind SocketKind
	def  []float64
}

type nodeSpec struct {
	name    string
	inputs  []socketSpec
	outputs []socketSpec
}

var nodeCatalogue = map[string]nodeSpec{
	NodeOutputWorld: {
		name:   "World Output",
		inputs: []socketSpec{{"Surface", SocketShader, nil}, {"Volume", SocketShader, nil}},
	},
	NodeBackground: {
		name:    "Background",
		inputs:  []socketSpec{{"Color", SocketColor, []float64{0.8, 0.8, 0.8, 1}}, {"Strength", SocketFloat, []float64{1}}},
		outputs: []socketSpec{{"Background", SocketShader, nil}},
	},
	NodeTexCoord: {
		name: "Texture Coordinate",
		outputs: []socketSpec{
			{"Generated", SocketVector, nil}, {"Normal", SocketVector, nil}, {"UV", SocketVector, nil},
			{"Object", SocketVector, nil}, {"Camera", SocketVector, nil}, {"Window", SocketVector, nil},
			{"Reflection", SocketVector, nil},
		},
	},
	NodeMapping: {
		name: "Mapping",
		inputs: []socketSpec{
			{"Vector", SocketVector, []float64{0, 0, 0}}, {"Location", SocketVector, []float64{0, 0, 0}},
			{"Rotation", SocketVector, []float64{0, 0, 0}}, {"Scale", SocketVector, []float64{1, 1, 1}},
		},
		outputs: []socketSpec{{"Vector", SocketVector, nil}},
	},
	NodeTexEnvironment: {
		name:    "Environment Texture",
		inputs:  []socketSpec{{"Vector", SocketVector, []float64{0, 0, 0}}},
		outputs: []socketSpec{{"Color", SocketColor, nil}, {"Alpha", SocketFloat, nil}},
	},
	NodeMixShader: {
		name:    "Mix Shader",
		inputs:  []socketSpec{{"Fac", SocketFloat, []float64{0.5}}, {"Shader", SocketShader, nil}, {"Shader", SocketShader, nil}},
		outputs: []socketSpec{{"Shader", SocketShader, nil}},
	},
	NodeLightPath: {
		name: "Light Path",
		outputs: []socketSpec{
			{"Is Camera Ray", SocketFloat, nil}, {"Is Shadow Ray", SocketFloat, nil},
			{"Is Diffuse Ray", SocketFloat, nil}, {"Is Glossy Ray", SocketFloat, nil},
			{"Is Singular Ray", SocketFloat, nil}, {"Is Reflection Ray", SocketFloat, nil},
			{"Is Transmission Ray", SocketFloat, nil}, {"Ray Length", SocketFloat, nil},
		},
	},
	NodeRenderLayers: {
		name: "Render Layers",
		outputs: []socketSpec{
			{"Image", SocketColor, nil}, {"Alpha", SocketFloat, nil}, {"Depth", SocketFloat, nil},
			{"Normal", SocketVector, nil}, {"UV", SocketVector, nil}, {"Vector", SocketColor, nil},
			{"CryptoObject00", SocketColor, nil}, {"CryptoObject01", SocketColor, nil},
		},
	},
	NodeComposite: {
		name:   "Composite",
		inputs: []socketSpec{{"Image", SocketColor, []float64{0, 0, 0, 1}}, {"Alpha", SocketFloat, []float64{1}}},
	},
	NodeOutputFile: {
		name:   "File Output",
		inputs: []socketSpec{{"Image", SocketColor, []float64{0, 0, 0, 1}}},
	},
}

// Link connects an output socket to an input socket.
type Link struct {
	From *Socket
	To   *Socket
}

// NodeTree is a graph of nodes and links.
type NodeTree struct {
	Name  string
	Nodes []*Node
	Links []*Link
}

// NewNode creates a node of the catalogue type typ. Names are made unique
// within the tree by suffixing ".001", ".002", ...
func (t *NodeTree) NewNode(typ string) (*Node, error) {
	spec, ok := nodeCatalogue[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, typ)
	}
	n := &Node{Name: t.uniqueName(spec.name), Type: typ, tree: t}
	for _, s := range spec.inputs {
		n.Inputs = append(n.Inputs, &Socket{Name: s.name, Kind: s.kind, DefaultValue: slices.Clone(s.def), node: n})
	}
	for _, s := range spec.outputs {
		n.Outputs = append(n.Outputs, &Socket{Name: s.name, Kind: s.kind, node: n, output: true})
	}
	if typ == NodeOutputFile {
		n.Format = ImageFormat{FileFormat: "OPEN_EXR", ColorDepth: "32"}
	}
	t.Nodes = append(t.Nodes, n)
	return n, nil
}

func (t *NodeTree) uniqueName(base string) string {
	return uniqueName(base, func(name string) bool { return t.Node(name) != nil })
}

// Node returns the node named name, or nil.
func (t *NodeTree) Node(name string) *Node {
	for _, n := range t.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// NodesOfType returns every node of type typ in tree order.
func (t *NodeTree) NodesOfType(typ string) []*Node {
	var out []*Node
	for _, n := range t.Nodes {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// RemoveNode deletes n and every link touching it.
func (t *NodeTree) RemoveNode(n *Node) {
	t.Links = slices.DeleteFunc(t.Links, func(l *Link) bool {
		return l.From.node == n || l.To.node == n
	})
	t.Nodes = slices.DeleteFunc(t.Nodes, func(m *Node) bool { return m == n })
	n.tree = nil
}

// Clear removes every node and link.
func (t *NodeTree) Clear() {
	for _, n := range t.Nodes {
		n.tree = nil
	}
	t.Nodes = nil
	t.Links = nil
}

// NewLink connects from (an output) to to (an input). An input accepts a
// single link; an existing link into to is replaced.
func (t *NodeTree) NewLink(from, to *Socket) (*Link, error) {
	if from == nil || to == nil || from.node == nil || to.node == nil || from.node.tree != t || to.node.tree != t {
		return nil, ErrForeignSocket
	}
	if !from.output || to.output {
		return nil, fmt.Errorf("%w: %s.%s -> %s.%s", ErrLinkDirection, from.node.Name, from.Name, to.node.Name, to.Name)
	}
	t.unlink(to)
	l := &Link{From: from, To: to}
	t.Links = append(t.Links, l)
	return l, nil
}

// LinkInto returns the link feeding input, or nil.
func (t *NodeTree) LinkInto(input *Socket) *Link {
	for _, l := range t.Links {
		if l.To == input {
			return l
		}
	}
	return nil
}

func (t *NodeTree) unlink(input *Socket) {
	t.Links = slices.DeleteFunc(t.Links, func(l *Link) bool { return l.To == input })
}

// uniqueName returns base, or base with the first free ".NNN" suffix.
func uniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if !taken(name) {
			return name
		}
	}
}
