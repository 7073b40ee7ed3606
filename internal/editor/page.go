package editor

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/pagebuilder/internal/generator"
)

// PageView is the full editor page.
type PageView struct {
	Panel   PanelView
	Surface SurfaceView
}

// Page renders the editor shell with the panel on the left and the surface
// on the right.
func Page(view PageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>pagebuilder</title>
    `+generator.Stylesheet+`
    <style>`+editorCSS+`</style>
</head>
<body>
<div class="pb-layout">
`); err != nil {
			return err
		}
		if err := Panel(view.Panel).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="pb-main">`); err != nil {
			return err
		}
		if err := Surface(view.Surface).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>
</div>
<script>`+editorJS+`</script>
</body>
</html>`)
		return err
	})
}

const editorCSS = `
        .pb-layout { display: flex; min-height: 100vh; }
        .pb-panel { width: 16rem; padding: 1rem; background: #f9fafb; border-right: 1px solid #e5e7eb; }
        .pb-panel section { margin-bottom: 1.5rem; }
        .pb-panel button, .pb-export { display: block; width: 100%; margin-bottom: 0.5rem; text-align: left; text-decoration: none; }
        .pb-export { padding: 0.5rem 1rem; background: #10b981; color: white; border-radius: 4px; }
        .pb-main { flex: 1; overflow-y: auto; }
        .pb-empty { padding: 2rem; color: #6b7280; }
        .pb-block { position: relative; outline: 1px dashed transparent; }
        .pb-block:hover { outline-color: #93c5fd; }
        .pb-selected { outline: 2px solid #3b82f6; }
        .pb-controls { position: absolute; top: 0.5rem; right: 0.5rem; display: flex; gap: 0.25rem; z-index: 1; }
        .pb-controls button { padding: 0.25rem 0.5rem; font-size: 0.75rem; }
        .pb-controls button[data-action="delete"] { background: #ef4444; }
        .pb-field { display: block; width: 100%; background: transparent; color: inherit; }
        .pb-h1 { font-size: 2rem; font-weight: bold; }
        .pb-h2 { font-size: 1.5rem; font-weight: bold; }
        .pb-h3 { font-size: 1.25rem; font-weight: bold; }
        .pb-colors { display: flex; gap: 1rem; font-size: 0.75rem; }
        .pb-colors .pb-field { display: inline-block; width: 3rem; padding: 0; }
        .pb-unknown { padding: 1rem; color: #b91c1c; }
`

const editorJS = `
(function () {
    var surface = document.querySelector('.pb-main');
    var pending = false;

    function api(method, url, body) {
        var opts = { method: method, headers: {} };
        if (body !== undefined) {
            opts.headers['Content-Type'] = 'application/json';
            opts.body = JSON.stringify(body);
        }
        return fetch(url, opts).then(function (res) {
            if (!res.ok) {
                return res.json().then(function (e) { console.error(e.code, e.error); });
            }
        });
    }

    function editing() {
        var a = document.activeElement;
        return a && a.classList && a.classList.contains('pb-field') && a.type !== 'color';
    }

    function refresh() {
        if (editing()) { pending = true; return; }
        pending = false;
        fetch('/surface').then(function (r) { return r.text(); }).then(function (html) {
            surface.innerHTML = html;
        });
    }

    function refreshPanel(mode) {
        var toggle = document.getElementById('mode-toggle');
        if (!toggle) { return; }
        toggle.dataset.mode = mode === 'preview' ? 'edit' : 'preview';
        toggle.textContent = mode === 'preview' ? 'Edit' : 'Preview';
    }

    document.addEventListener('click', function (ev) {
        var el = ev.target.closest('[data-action]');
        if (!el) { return; }
        var block = el.closest('.pb-block');
        var id = block ? encodeURIComponent(block.dataset.id) : '';
        switch (el.dataset.action) {
        case 'template': api('POST', '/api/templates/' + encodeURIComponent(el.dataset.key)); break;
        case 'add': api('POST', '/api/elements', { type: el.dataset.kind }); break;
        case 'mode': api('POST', '/api/mode', { mode: el.dataset.mode }); break;
        case 'reset': api('POST', '/api/reset'); break;
        case 'select': api('POST', '/api/elements/' + id + '/select'); break;
        case 'delete': api('DELETE', '/api/elements/' + id); break;
        }
    });

    document.addEventListener('input', function (ev) {
        var field = ev.target.dataset && ev.target.dataset.field;
        var block = ev.target.closest && ev.target.closest('.pb-block');
        if (!field || !block) { return; }
        var patch = {};
        patch[field] = ev.target.value;
        api('PATCH', '/api/elements/' + encodeURIComponent(block.dataset.id), patch);
    });

    document.addEventListener('focusout', function () {
        setTimeout(function () { if (pending) { refresh(); } }, 0);
    });

    function connect() {
        var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
        var ws = new WebSocket(proto + location.host + '/ws');
        ws.onmessage = function (ev) {
            var msg = JSON.parse(ev.data);
            if (msg.type === 'mode_changed') { refreshPanel(msg.target); }
            refresh();
        };
        ws.onclose = function () { setTimeout(connect, 1000); };
    }
    connect();
})();
`
