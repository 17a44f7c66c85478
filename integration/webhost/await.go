// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

package webhost

import (
	"errors"
	"fmt"
	"syscall/js"
)

// ErrNoWebGPU is returned when the browser does not expose navigator.gpu
// or refuses to hand out an adapter.
var ErrNoWebGPU = errors.New("webhost: WebGPU not available")

// await blocks the calling goroutine until the promise v settles. Values
// that are not thenable are returned as is.
func await(v js.Value) (js.Value, error) {
	if v.Type() != js.TypeObject || v.Get("then").Type() != js.TypeFunction {
		return v, nil
	}

	var (
		result js.Value
		ok     bool
	)
	done := make(chan struct{})

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			result = args[0]
		}
		ok = true
		close(done)
		return nil
	})
	defer onResolve.Release()

	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			result = args[0]
		}
		close(done)
		return nil
	})
	defer onReject.Release()

	v.Call("then", onResolve, onReject)
	<-done
	if !ok {
		return js.Undefined(), fmt.Errorf("webhost: promise rejected: %s", jsString(result))
	}
	return result, nil
}

// jsString renders a JS value for error messages.
func jsString(v js.Value) string {
	switch v.Type() {
	case js.TypeUndefined, js.TypeNull:
		return v.Type().String()
	case js.TypeString:
		return v.String()
	}
	if msg := v.Get("message"); msg.Type() == js.TypeString {
		return msg.String()
	}
	return v.Call("toString").String()
}

// bytesToJS copies b into a new Uint8Array.
func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}
