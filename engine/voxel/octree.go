package voxel

import (
	"github.com/memmaker/chunkcull/engine/util"
)

type octreeEntry struct {
	handle BufferHandle
	box    util.AABB
}

type octreeNode struct {
	bounds   util.AABB
	depth    int
	entries  []octreeEntry
	children *[8]*octreeNode
}

// Octree indexes chunk bounds for frustum range queries. It stores handles only and never owns chunks.
// Entries live in the deepest node that fully contains their box. Nodes split once they hold more
// than nodeCapacity entries, up to maxDepth.
type Octree struct {
	root         *octreeNode
	maxDepth     int
	nodeCapacity int
	lookup       map[BufferHandle]*octreeNode
}

func NewOctree(bounds util.AABB, maxDepth, nodeCapacity int) *Octree {
	if nodeCapacity < 1 {
		nodeCapacity = 1
	}
	return &Octree{
		root:         &octreeNode{bounds: bounds},
		maxDepth:     maxDepth,
		nodeCapacity: nodeCapacity,
		lookup:       make(map[BufferHandle]*octreeNode),
	}
}

func (o *Octree) Bounds() util.AABB { return o.root.bounds }
func (o *Octree) Count() int        { return len(o.lookup) }

func (o *Octree) Contains(handle BufferHandle) bool {
	_, ok := o.lookup[handle]
	return ok
}

// Insert adds or moves the handle. Boxes that do not touch the root volume are rejected,
// and a rejected move drops the handle's previous entry.
func (o *Octree) Insert(handle BufferHandle, box util.AABB) bool {
	o.Remove(handle)
	if !o.root.bounds.Intersects(box) {
		util.LogCullingWarning("[Octree] rejected %s: %s outside of %s", handle, box, o.root.bounds)
		return false
	}
	o.insertInto(o.root, octreeEntry{handle: handle, box: box})
	return true
}

func (o *Octree) insertInto(node *octreeNode, entry octreeEntry) {
	for node.children != nil {
		child := node.childContaining(entry.box)
		if child == nil {
			break
		}
		node = child
	}
	node.entries = append(node.entries, entry)
	o.lookup[entry.handle] = node
	if node.children == nil && len(node.entries) > o.nodeCapacity && node.depth < o.maxDepth {
		o.split(node)
	}
}

func (n *octreeNode) childContaining(box util.AABB) *octreeNode {
	for _, child := range n.children {
		if child.bounds.ContainsBox(box) {
			return child
		}
	}
	return nil
}

func (o *Octree) split(node *octreeNode) {
	var children [8]*octreeNode
	for i := range children {
		children[i] = &octreeNode{bounds: node.bounds.Octant(i), depth: node.depth + 1}
	}
	node.children = &children
	kept := node.entries[:0]
	for _, entry := range node.entries {
		if child := node.childContaining(entry.box); child != nil {
			child.entries = append(child.entries, entry)
			o.lookup[entry.handle] = child
			continue
		}
		kept = append(kept, entry)
	}
	node.entries = kept
}

// Remove is a no-op for unknown handles.
func (o *Octree) Remove(handle BufferHandle) {
	node, ok := o.lookup[handle]
	if !ok {
		return
	}
	for i, entry := range node.entries {
		if entry.handle == handle {
			last := len(node.entries) - 1
			node.entries[i] = node.entries[last]
			node.entries = node.entries[:last]
			break
		}
	}
	delete(o.lookup, handle)
}

// Query appends every handle whose box is at least partially inside the frustum.
// The order of the result is unspecified.
func (o *Octree) Query(frustum util.Frustum, out []BufferHandle) []BufferHandle {
	return o.root.query(frustum, out)
}

func (n *octreeNode) query(frustum util.Frustum, out []BufferHandle) []BufferHandle {
	switch frustum.TestAABB(n.bounds) {
	case util.Outside:
		// the root may hold boxes reaching past its bounds
		if n.depth > 0 {
			return out
		}
		for _, entry := range n.entries {
			if frustum.IsVisible(entry.box) {
				out = append(out, entry.handle)
			}
		}
		return out
	case util.Inside:
		return n.collect(out)
	}
	for _, entry := range n.entries {
		if frustum.IsVisible(entry.box) {
			out = append(out, entry.handle)
		}
	}
	if n.children != nil {
		for _, child := range n.children {
			out = child.query(frustum, out)
		}
	}
	return out
}

func (n *octreeNode) collect(out []BufferHandle) []BufferHandle {
	for _, entry := range n.entries {
		out = append(out, entry.handle)
	}
	if n.children != nil {
		for _, child := range n.children {
			out = child.collect(out)
		}
	}
	return out
}

func (o *Octree) Clear() {
	o.root = &octreeNode{bounds: o.root.bounds}
	o.lookup = make(map[BufferHandle]*octreeNode)
}
