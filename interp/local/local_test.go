// SPDX-License-Identifier: Apache-2.0

package local_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/interp/local"
)

func TestCallNodeEntryDecoratedSource(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef add(a: int, b: int) -> int:\n    return a + b\n"

	res, err := ip.Call(context.Background(), "add", source, map[string]any{"a": int64(2), "b": int64(3)})
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)
	assert.Equal(t, int64(5), res.Outputs[0])
}

func TestCallTupleReturnUnpacksOutputs(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef split(x: int):\n    return x + 1, x - 1\n"

	res, err := ip.Call(context.Background(), "split", source, map[string]any{"x": int64(10)})
	require.NoError(t, err)
	require.Len(t, res.Outputs, 2)
	assert.Equal(t, int64(11), res.Outputs[0])
	assert.Equal(t, int64(9), res.Outputs[1])
}

func TestCallPersistentGlobalNamespaceAcrossCalls(t *testing.T) {
	ip := local.New()
	source := "history = []\n\n@node_entry\ndef record(value: int) -> int:\n    history.append(value)\n    return len(history)\n"

	res, err := ip.Call(context.Background(), "record", source, map[string]any{"value": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Outputs[0])

	res, err = ip.Call(context.Background(), "record", source, map[string]any{"value": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Outputs[0], "history list defined at module scope must persist across calls")
}

func TestCallCapturesStdout(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef greet(name: str) -> str:\n    print('hello', name)\n    return name\n"

	res, err := ip.Call(context.Background(), "greet", source, map[string]any{"name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", res.Stdout)
}

func TestResetClearsNamespace(t *testing.T) {
	ip := local.New()
	source := "history = []\n\n@node_entry\ndef record(value: int) -> int:\n    history.append(value)\n    return len(history)\n"

	_, err := ip.Call(context.Background(), "record", source, map[string]any{"value": int64(1)})
	require.NoError(t, err)

	ip.Reset()

	res, err := ip.Call(context.Background(), "record", source, map[string]any{"value": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Outputs[0], "after Reset the module-level list must be rebuilt from scratch")
}

func TestCallForRangeLoop(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef total(n: int) -> int:\n    acc = 0\n    for i in range(n):\n        acc = acc + i\n    return acc\n"

	res, err := ip.Call(context.Background(), "total", source, map[string]any{"n": int64(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Outputs[0])
}

func TestCallIfElifElse(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef classify(x: int) -> str:\n    if x > 0:\n        return 'pos'\n    elif x < 0:\n        return 'neg'\n    else:\n        return 'zero'\n"

	for x, want := range map[int64]string{1: "pos", -1: "neg", 0: "zero"} {
		res, err := ip.Call(context.Background(), "classify", source, map[string]any{"x": x})
		require.NoError(t, err)
		assert.Equal(t, want, res.Outputs[0])
	}
}

func TestCallStringMethods(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef shout(s: str) -> str:\n    return s.strip().upper()\n"

	res, err := ip.Call(context.Background(), "shout", source, map[string]any{"s": "  hi  "})
	require.NoError(t, err)
	assert.Equal(t, "HI", res.Outputs[0])
}

func TestCallImportMath(t *testing.T) {
	ip := local.New()
	source := "import math\n\n@node_entry\ndef hyp(a: float, b: float) -> float:\n    return math.sqrt(a * a + b * b)\n"

	res, err := ip.Call(context.Background(), "hyp", source, map[string]any{"a": 3.0, "b": 4.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Outputs[0])
}

func TestCallUnknownFunctionReturnsError(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef present() -> int:\n    return 1\n"

	_, err := ip.Call(context.Background(), "missing", source, nil)
	assert.Error(t, err)
}

func TestCallParseErrorIsReported(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef broken()\n    return 1\n"

	_, err := ip.Call(context.Background(), "broken", source, nil)
	assert.Error(t, err)
}

func TestCallListAndDictLiterals(t *testing.T) {
	ip := local.New()
	source := "@node_entry\ndef build() -> int:\n    xs = [1, 2, 3]\n    xs.append(4)\n    d = {'a': 1}\n    return len(xs) + len(d.keys())\n"

	res, err := ip.Call(context.Background(), "build", source, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Outputs[0])
}
