// rendergo - a 2D graphics placement, compositing and PDF export engine
// Copyright (C) 2026  The rendergo Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package bsp3d

// Node is a node in the BSP tree. Front and back are relative to the
// normal of the plane node.Data lies on.
type Node struct {
	Data           *Polygon
	CoplanarsFront []*Polygon
	CoplanarsBack  []*Polygon
	FrontChild     *Node
	BackChild      *Node
}

// Tree implements binary space partitioning for correct back-to-front depth
// sorting of possibly-intersecting 3D polygons. Intersecting polygons are
// split along plane intersections as the tree is built.
type Tree struct {
	root *Node
}

// Build constructs a BSP tree from polygons. The first polygon becomes the
// root splitting plane; its position in the input order otherwise has no
// special meaning (only depth/sequence drive paint order).
func Build(polygons []*Polygon) *Tree {
	if len(polygons) == 0 {
		return &Tree{}
	}
	queue := append([]*Polygon(nil), polygons...)
	root := &Node{Data: queue[0]}
	queue = queue[1:]
	buildTree(root, queue)
	return &Tree{root: root}
}

// buildTree recursively partitions polygons by node.Data's plane into
// front/back lists, then builds subtrees from each. Average case is
// O(n log n); worst case O(n * 2^n) when every split intersects every
// remaining polygon.
func buildTree(node *Node, polygons []*Polygon) {
	var frontList, backList []*Polygon

	for _, polygon := range polygons {
		front, back, coplanar := node.Data.SplitAnother(polygon)
		if coplanar {
			if front != nil {
				node.CoplanarsFront = append(node.CoplanarsFront, front)
			}
			if back != nil {
				node.CoplanarsBack = append(node.CoplanarsBack, back)
			}
			continue
		}
		if front != nil {
			frontList = append(frontList, front)
		}
		if back != nil {
			backList = append(backList, back)
		}
	}

	if len(backList) > 0 {
		node.BackChild = &Node{Data: backList[0]}
		buildTree(node.BackChild, backList[1:])
	}
	if len(frontList) > 0 {
		node.FrontChild = &Node{Data: frontList[0]}
		buildTree(node.FrontChild, frontList[1:])
	}
}

// TraverseBackToFront visits every polygon in the tree in correct
// back-to-front paint order relative to a camera looking down the +Z axis,
// calling visit for each.
func (t *Tree) TraverseBackToFront(visit func(*Polygon)) {
	if t.root != nil {
		traverseNode(visit, t.root)
	}
}

func traverseNode(visit func(*Polygon), node *Node) {
	if node.Data.IsFacingPositiveZ() {
		visitNode(visit, node, node.BackChild, node.FrontChild, node.CoplanarsBack, node.CoplanarsFront)
	} else {
		visitNode(visit, node, node.FrontChild, node.BackChild, node.CoplanarsFront, node.CoplanarsBack)
	}
}

func visitNode(visit func(*Polygon), node, firstChild, secondChild *Node, firstCoplanars, secondCoplanars []*Polygon) {
	if firstChild != nil {
		traverseNode(visit, firstChild)
	}
	for _, p := range firstCoplanars {
		visit(p)
	}
	visit(node.Data)
	for _, p := range secondCoplanars {
		visit(p)
	}
	if secondChild != nil {
		traverseNode(visit, secondChild)
	}
}
