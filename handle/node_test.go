package handle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Handle {
	t.Helper()
	h, err := Parse(s)
	require.NoError(t, err)
	return h
}

func TestBuildTree(t *testing.T) {
	listing := map[string][]string{
		"Collection-00100": {"Document-00101", "Collection-00200"},
		"Collection-00200": {"Document-00201"},
	}
	resolve := func(h Handle) ([]Handle, error) {
		var children []Handle
		for _, s := range listing[h.Identifier()] {
			children = append(children, mustParse(t, s))
		}
		return children, nil
	}

	root, err := BuildTree(mustParse(t, "Collection-00100"), resolve)
	require.NoError(t, err)
	require.Nil(t, root.Parent())
	require.Len(t, root.Children(), 2)

	var leaves []string
	for _, leaf := range root.Leaves() {
		leaves = append(leaves, leaf.Handle.Identifier())
	}
	require.Equal(t, []string{"Document-00101", "Document-00201"}, leaves)
}

func TestBuildTreeRootMustBeCollection(t *testing.T) {
	_, err := BuildTree(mustParse(t, "Document-00101"), func(Handle) ([]Handle, error) {
		return nil, nil
	})
	require.Error(t, err)
}

func TestEmptyCollectionIsNotALeaf(t *testing.T) {
	root, err := BuildTree(mustParse(t, "Collection-00100"), func(h Handle) ([]Handle, error) {
		if h.Identifier() == "Collection-00100" {
			return []Handle{mustParse(t, "Collection-00200")}, nil
		}
		return nil, nil
	})
	require.NoError(t, err)
	require.Empty(t, root.Leaves())
}

func TestBuildTreeDetectsCycle(t *testing.T) {
	a := mustParse(t, "Collection-00100")
	b := mustParse(t, "Collection-00200")
	_, err := BuildTree(a, func(h Handle) ([]Handle, error) {
		if h == a {
			return []Handle{b}, nil
		}
		return []Handle{a}, nil
	})
	require.ErrorContains(t, err, "cycle")
}

func TestPath(t *testing.T) {
	listing := map[string][]string{
		"Collection-00100": {"Collection-00200"},
		"Collection-00200": {"Document-00201"},
	}
	root, err := BuildTree(mustParse(t, "Collection-00100"), func(h Handle) ([]Handle, error) {
		var children []Handle
		for _, s := range listing[h.Identifier()] {
			children = append(children, mustParse(t, s))
		}
		return children, nil
	})
	require.NoError(t, err)

	leaves := root.Leaves()
	require.Len(t, leaves, 1)

	var path []string
	for _, node := range leaves[0].Path() {
		path = append(path, node.Handle.Identifier())
	}
	require.Equal(t, []string{"Collection-00100", "Collection-00200", "Document-00201"}, path)
}

func TestChildrenReturnsCopy(t *testing.T) {
	root, err := BuildTree(mustParse(t, "Collection-00100"), func(h Handle) ([]Handle, error) {
		if h.Type == Collection && h.Number == 100 {
			return []Handle{mustParse(t, "Document-00101")}, nil
		}
		return nil, nil
	})
	require.NoError(t, err)

	children := root.Children()
	children[0] = nil
	require.NotNil(t, root.Children()[0])
}
