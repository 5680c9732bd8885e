package main

// indexHTML is the embedded viewer page: a canvas plus a small binary
// frame decoder mirroring pkg/live's codec. The page draws whatever
// the server renders and forwards raw pointer input; all interaction
// logic lives server-side in the engine.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>papergraph</title>
<style>
  html, body { margin: 0; height: 100%; background: #0b0e14; color: #eaeef3;
               font: 13px sans-serif; }
  #bar { position: fixed; top: 8px; left: 8px; display: flex; gap: 6px; }
  #bar input, #bar button { background: #161b26; color: #eaeef3;
               border: 1px solid #39424e; border-radius: 4px; padding: 4px 8px; }
  #msg { position: fixed; top: 50%; width: 100%; text-align: center; }
  canvas { display: block; touch-action: none; }
</style>
</head>
<body>
<div id="bar">
  <input id="search" placeholder="search papers" />
  <input id="area" placeholder="subject area" />
  <button id="reset">Reset View</button>
  <button id="mode">Toggle Mode</button>
  <button id="retry" style="display:none">Retry</button>
</div>
<div id="msg"></div>
<canvas id="c"></canvas>
<script>
"use strict";
const canvas = document.getElementById("c");
const ctx2d = canvas.getContext("2d");
const msgEl = document.getElementById("msg");
const retryBtn = document.getElementById("retry");
let lastSeq = 0;
let viewMode = 0;

class Reader {
  constructor(buf) { this.v = new DataView(buf); this.o = 0; }
  byte() { return this.v.getUint8(this.o++); }
  uvarint() {
    let x = 0n, s = 0n;
    for (;;) {
      const b = BigInt(this.byte());
      if (b < 0x80n) return Number(x | (b << s));
      x |= (b & 0x7fn) << s;
      s += 7n;
    }
  }
  varint() {
    const u = this.uvarint();
    return (u >>> 1) ^ -(u & 1);
  }
  coord() { return this.varint() / 10; }
  opacity() { return this.byte() / 255; }
  str() {
    const n = this.uvarint();
    const bytes = new Uint8Array(this.v.buffer, this.o, n);
    this.o += n;
    return new TextDecoder().decode(bytes);
  }
}

class Writer {
  constructor() { this.bytes = []; }
  byte(b) { this.bytes.push(b & 0xff); }
  uvarint(v) {
    while (v >= 0x80) { this.byte((v & 0x7f) | 0x80); v = Math.floor(v / 128); }
    this.byte(v);
  }
  varint(v) { this.uvarint(v < 0 ? -2 * v - 1 : 2 * v); }
  coord(v) { this.varint(Math.round(v * 10)); }
  str(s) {
    const b = new TextEncoder().encode(s);
    this.uvarint(b.length);
    for (const x of b) this.byte(x);
  }
  buf() { return new Uint8Array(this.bytes); }
}

function drawScene(buf) {
  const r = new Reader(buf);
  if (r.byte() !== 0x00) return;
  const seq = r.uvarint();
  if (seq < lastSeq) return; // stale frame
  lastSeq = seq;
  const state = r.byte();
  const message = r.str();
  const w = r.coord(), h = r.coord();
  const bg = r.str();
  canvas.width = w; canvas.height = h;
  ctx2d.fillStyle = bg;
  ctx2d.fillRect(0, 0, w, h);
  msgEl.textContent = state === 0 ? "" : message;
  retryBtn.style.display = state === 2 ? "" : "none";
  if (state !== 0) return;

  let n = r.uvarint();
  for (let i = 0; i < n; i++) {
    const x1 = r.coord(), y1 = r.coord(), x2 = r.coord(), y2 = r.coord();
    const stroke = r.str(), width = r.coord(), op = r.opacity();
    ctx2d.globalAlpha = op;
    ctx2d.strokeStyle = stroke;
    ctx2d.lineWidth = width;
    ctx2d.beginPath();
    ctx2d.moveTo(x1, y1);
    ctx2d.lineTo(x2, y2);
    ctx2d.stroke();
  }
  n = r.uvarint();
  for (let i = 0; i < n; i++) {
    r.str(); // node id
    const x = r.coord(), y = r.coord(), rad = r.coord();
    const fill = r.str(), stroke = r.str(), sw = r.coord(), op = r.opacity();
    ctx2d.globalAlpha = op;
    ctx2d.fillStyle = fill;
    ctx2d.beginPath();
    ctx2d.arc(x, y, rad, 0, Math.PI * 2);
    ctx2d.fill();
    if (sw > 0) {
      ctx2d.strokeStyle = stroke;
      ctx2d.lineWidth = sw;
      ctx2d.stroke();
    }
  }
  n = r.uvarint();
  ctx2d.globalAlpha = 1;
  for (let i = 0; i < n; i++) {
    r.str(); // node id
    const x = r.coord(), y = r.coord();
    const text = r.str(), size = r.coord(), color = r.str();
    ctx2d.fillStyle = color;
    ctx2d.font = size + "px sans-serif";
    ctx2d.fillText(text, x, y + size / 3);
  }
}

const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/live");
ws.binaryType = "arraybuffer";
ws.onmessage = (ev) => drawScene(ev.data);

function sendPointer(kind, x, y, delta) {
  if (ws.readyState !== WebSocket.OPEN) return;
  const w = new Writer();
  w.byte(0x01); w.byte(kind); w.coord(x); w.coord(y); w.coord(delta || 0);
  ws.send(w.buf());
}
function sendControl(op, mode, text) {
  if (ws.readyState !== WebSocket.OPEN) return;
  const w = new Writer();
  w.byte(0x02); w.byte(op); w.byte(mode || 0); w.str(text || "");
  ws.send(w.buf());
}

canvas.addEventListener("mousemove", e => sendPointer(0x01, e.offsetX, e.offsetY));
canvas.addEventListener("mousedown", e => sendPointer(0x02, e.offsetX, e.offsetY));
canvas.addEventListener("mouseup",   e => sendPointer(0x03, e.offsetX, e.offsetY));
canvas.addEventListener("mouseout",  e => sendPointer(0x04, e.offsetX, e.offsetY));
canvas.addEventListener("wheel", e => {
  e.preventDefault();
  sendPointer(0x05, e.offsetX, e.offsetY, e.deltaY);
}, { passive: false });

document.getElementById("reset").onclick = () => sendControl(0x01);
document.getElementById("mode").onclick = () => {
  viewMode = viewMode === 0 ? 1 : 0;
  sendControl(0x02, viewMode);
};
retryBtn.onclick = () => sendControl(0x04);
document.getElementById("search").addEventListener("keydown", e => {
  if (e.key === "Enter") sendControl(0x03, 0, e.target.value);
});
document.getElementById("area").addEventListener("keydown", e => {
  if (e.key === "Enter") sendControl(0x05, 0, e.target.value);
});
</script>
</body>
</html>
`
