package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariableKeyAndEquality(t *testing.T) {
	x1 := &Variable{Name: "x"}
	x2 := &Variable{Name: "x"}
	y := &Variable{Name: "y"}
	assert.True(t, Equal(x1, x2))
	assert.False(t, Equal(x1, y))
}

func TestConstantAndVariableHaveDistinctKeySpaces(t *testing.T) {
	v := &Variable{Name: "x"}
	c := &Constant{Name: "x"}
	assert.NotEqual(t, v.Key(), c.Key())
}

func TestFunctionKeyIncludesArgs(t *testing.T) {
	f1 := &Function{Name: "f", Args: []Term{&Constant{Name: "A"}}}
	f2 := &Function{Name: "f", Args: []Term{&Constant{Name: "B"}}}
	assert.NotEqual(t, f1.Key(), f2.Key())
}

func TestFunctionContainsNestedVariable(t *testing.T) {
	x := &Variable{Name: "x"}
	f := &Function{Name: "f", Args: []Term{&Constant{Name: "A"}, x}}
	assert.True(t, f.Contains(x))
	assert.False(t, f.Contains(&Variable{Name: "y"}))
}

func TestFunctionContainsItself(t *testing.T) {
	f := &Function{Name: "f", Args: []Term{&Constant{Name: "A"}}}
	assert.True(t, f.Contains(f))
}

func TestFunctionContainsDeeplyNestedVariable(t *testing.T) {
	x := &Variable{Name: "x"}
	inner := &Function{Name: "g", Args: []Term{x}}
	outer := &Function{Name: "f", Args: []Term{inner}}
	assert.True(t, outer.Contains(x))
}

func TestIsVariableName(t *testing.T) {
	assert.True(t, IsVariableName("x"))
	assert.False(t, IsVariableName("X"))
	assert.False(t, IsVariableName(""))
	assert.False(t, IsVariableName("1x"))
}

func TestTermStringRendering(t *testing.T) {
	f := &Function{Name: "f", Args: []Term{&Variable{Name: "x"}, &Constant{Name: "A"}}}
	assert.Equal(t, "f(x, A)", f.String())
}
