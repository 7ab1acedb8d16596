// SPDX-License-Identifier: Apache-2.0

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pyflowgraph/graph"
)

func TestColorForTypeNameIsDeterministic(t *testing.T) {
	c1 := graph.ColorForTypeName("int")
	c2 := graph.ColorForTypeName("int")
	assert.Equal(t, c1, c2)
}

func TestColorForTypeNameIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, graph.ColorForTypeName("Str"), graph.ColorForTypeName("str"))
}

func TestColorForTypeNameAnyIsFixedGrey(t *testing.T) {
	c := graph.ColorForTypeName("any")
	assert.Equal(t, "#C0C0C0", c.Hex())
}

func TestColorForTypeNameDiffersAcrossTypes(t *testing.T) {
	assert.NotEqual(t, graph.ColorForTypeName("int").Hex(), graph.ColorForTypeName("string").Hex())
}

func TestColorHexFormat(t *testing.T) {
	c := graph.Color{R: 1, G: 2, B: 3}
	assert.Equal(t, "#010203", c.Hex())
}
