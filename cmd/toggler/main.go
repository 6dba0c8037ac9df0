//go:build js && wasm

// Command toggler is the WebAssembly program loaded by the page. It applies
// the stored theme once the page has loaded and flips it on every click of
// the #switch-mode button.
package main

import (
	"syscall/js"

	log "github.com/go-pkgz/lgr"

	"mode_switch/internals/browser"
	"mode_switch/internals/theme"
)

func main() {
	log.Setup(log.Msec)

	doc := js.Global().Get("document")
	if doc.Get("readyState").String() == "complete" {
		start()
	} else {
		var onLoad js.Func
		onLoad = js.FuncOf(func(js.Value, []js.Value) any {
			start()
			onLoad.Release()
			return nil
		})
		js.Global().Call("addEventListener", "load", onLoad, map[string]any{"once": true})
	}

	// callbacks run on this goroutine's behalf, keep the program alive
	select {}
}

func start() {
	page := browser.NewPage()
	tg, err := theme.New(page, theme.NewCookieStore(browser.NewCookieJar()),
		theme.WithOrigin(browser.Origin()), theme.WithLogger(log.Default()))
	if err != nil {
		log.Printf("[ERROR] theme toggle disabled: %v", err)
		return
	}

	if err := tg.Load(); err != nil {
		log.Printf("[ERROR] apply stored theme: %v", err)
	}

	btn, _ := page.ElementByID(theme.ButtonID)
	btn.(*browser.Element).OnClick(func() {
		mode, err := tg.Click()
		if err != nil {
			log.Printf("[ERROR] toggle theme: %v", err)
			return
		}
		log.Printf("[DEBUG] theme is now %s", mode)
	})
	browser.MarkReady()
}
