// Package browser binds the theme toggler to the live page through syscall/js.
// It only builds for GOOS=js GOARCH=wasm.
package browser
