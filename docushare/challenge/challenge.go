// Package challenge computes the response half of DocuShare's
// challenge-response login. The server embeds a JavaScript file
// (challenge.js) in its login page whose obscure_string function
// combines the entered password with a per-session login token; the
// resulting string is what gets POSTed instead of the password.
//
// The script is site-controlled and may change between DocuShare
// releases, so it is executed as-is rather than reimplemented.
package challenge

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
)

// Runner computes the challenge response for one login attempt.
// Implementations must not log or retain the password.
type Runner interface {
	Obscure(ctx context.Context, password, loginToken, script string) (string, error)
}

const entryPoint = "obscure_string"

// JSRunner evaluates the site-supplied challenge script in an embedded
// JavaScript runtime. Each call uses a fresh, isolated VM.
type JSRunner struct{}

func (JSRunner) Obscure(ctx context.Context, password, loginToken, script string) (string, error) {
	vm := goja.New()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	if _, err := vm.RunString(script); err != nil {
		return "", fmt.Errorf("failed to evaluate challenge script: %w", err)
	}
	obscure, ok := goja.AssertFunction(vm.Get(entryPoint))
	if !ok {
		return "", fmt.Errorf("challenge script does not define %s", entryPoint)
	}
	result, err := obscure(goja.Undefined(), vm.ToValue(password), vm.ToValue(loginToken))
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", entryPoint, err)
	}
	return result.String(), nil
}
