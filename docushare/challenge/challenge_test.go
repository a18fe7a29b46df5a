package challenge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const script = `
function obscure_string(password, token) {
	var out = "";
	for (var i = 0; i < password.length; i++) {
		out += password.charAt(i) + token.charAt(i % token.length);
	}
	return out;
}
`

func TestObscure(t *testing.T) {
	out, err := JSRunner{}.Obscure(context.Background(), "ab", "XY", script)
	require.NoError(t, err)
	require.Equal(t, "aXbY", out)
}

func TestObscureMissingEntryPoint(t *testing.T) {
	_, err := JSRunner{}.Obscure(context.Background(), "pw", "token", `var x = 1;`)
	require.ErrorContains(t, err, "obscure_string")
}

func TestObscureBrokenScript(t *testing.T) {
	_, err := JSRunner{}.Obscure(context.Background(), "pw", "token", `function obscure_string(`)
	require.Error(t, err)
}

func TestObscureThrowingScript(t *testing.T) {
	_, err := JSRunner{}.Obscure(context.Background(), "pw", "token",
		`function obscure_string() { throw new Error("nope"); }`)
	require.Error(t, err)
}
