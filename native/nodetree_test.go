package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeNamesAreUnique(t *testing.T) {
	tree := &NodeTree{}
	a, err := tree.NewNode(NodeBackground)
	require.NoError(t, err)
	b, err := tree.NewNode(NodeBackground)
	require.NoError(t, err)

	assert.Equal(t, "Background", a.Name)
	assert.Equal(t, "Background.001", b.Name)
	assert.Equal(t, []float64{0.8, 0.8, 0.8, 1}, a.Input("Color").DefaultValue)

	a.Input("Color").DefaultValue[0] = 0
	assert.Equal(t, 0.8, b.Input("Color").DefaultValue[0], "defaults are not shared")
}

func TestNewNodeUnknownType(t *testing.T) {
	_, err := (&NodeTree{}).NewNode("ShaderNodeTeapot")
	assert.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestNewLinkReplacesInputLink(t *testing.T) {
	tree := &NodeTree{}
	out, _ := tree.NewNode(NodeOutputWorld)
	a, _ := tree.NewNode(NodeBackground)
	b, _ := tree.NewNode(NodeBackground)

	_, err := tree.NewLink(a.Output("Background"), out.Input("Surface"))
	require.NoError(t, err)
	_, err = tree.NewLink(b.Output("Background"), out.Input("Surface"))
	require.NoError(t, err)

	require.Len(t, tree.Links, 1)
	assert.Same(t, b, tree.LinkInto(out.Input("Surface")).From.Node())
}

func TestNewLinkChecksSockets(t *testing.T) {
	tree := &NodeTree{}
	other := &NodeTree{}
	out, _ := tree.NewNode(NodeOutputWorld)
	bg, _ := tree.NewNode(NodeBackground)
	foreign, _ := other.NewNode(NodeBackground)

	_, err := tree.NewLink(out.Input("Surface"), bg.Input("Color"))
	assert.ErrorIs(t, err, ErrLinkDirection)
	_, err = tree.NewLink(foreign.Output("Background"), out.Input("Surface"))
	assert.ErrorIs(t, err, ErrForeignSocket)
	_, err = tree.NewLink(nil, out.Input("Surface"))
	assert.ErrorIs(t, err, ErrForeignSocket)
}

func TestRemoveNodeDropsLinks(t *testing.T) {
	tree := &NodeTree{}
	out, _ := tree.NewNode(NodeOutputWorld)
	bg, _ := tree.NewNode(NodeBackground)
	_, err := tree.NewLink(bg.Output("Background"), out.Input("Surface"))
	require.NoError(t, err)

	tree.RemoveNode(bg)
	assert.Empty(t, tree.Links)
	assert.Len(t, tree.Nodes, 1)
	assert.Nil(t, tree.Node("Background"))
}

func TestMixShaderSocketsByIndex(t *testing.T) {
	tree := &NodeTree{}
	mix, _ := tree.NewNode(NodeMixShader)

	assert.Equal(t, 1, mix.Inputs[1].Index())
	assert.Equal(t, 2, mix.Inputs[2].Index())
	assert.Same(t, mix.Inputs[1], mix.Input("Shader"))
}

func TestFileSlots(t *testing.T) {
	tree := &NodeTree{}
	rl, _ := tree.NewNode(NodeRenderLayers)
	fo, _ := tree.NewNode(NodeOutputFile)
	assert.Equal(t, "OPEN_EXR", fo.Format.FileFormat)

	fo.ClearFileSlots()
	slot, err := fo.NewFileSlot("Depth")
	require.NoError(t, err)
	_, err = tree.NewLink(rl.Output("Depth"), slot)
	require.NoError(t, err)

	fo.ClearFileSlots()
	assert.Empty(t, fo.Inputs)
	assert.Empty(t, tree.Links)

	_, err = rl.NewFileSlot("x")
	assert.ErrorIs(t, err, ErrUnknownNodeType)
}
