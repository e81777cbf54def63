// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package sgraph is a hierarchical scene-graph renderer.
//
// Scenes are trees of nodes (see package node), each with a local
// transform relative to its parent. Mesh nodes carry geometry and a
// material and issue draw calls against a device.Renderer during a
// pre-order traversal. Package scene owns the root of a scene and
// lowers Wavefront OBJ files (see package obj) into graph nodes.
//
// This package only holds state shared by the sub-packages,
// namely the logger.
package sgraph
