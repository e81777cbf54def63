// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Objview loads Wavefront OBJ files into a scene graph,
// renders a number of frames on a device and prints the
// resulting graph.
package main

import (
	"os"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
