package main

import "html/template"

var page = template.Must(template.New("index").Parse(`
<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>PDF Merger: Match by Filename</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
    :root { --border:#eee; --muted:#666; --ok:#0a7d2c; --warn:#a66300; --err:#c00; }
    * { box-sizing:border-box; }
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; max-width: 880px; }
    h1 { margin:0 0 16px 0; font-size:22px; }
    .parts { display:grid; grid-template-columns: 1fr 1fr; gap:16px; }
    .box { border:1px solid var(--border); border-radius:12px; padding:14px; }
    .box h3 { margin:0 0 8px 0; font-size:15px; }
    .muted { color:var(--muted); font-size:12px; }
    .btn { padding:10px 14px; border:0; background:#111; color:#fff; border-radius:10px; cursor:pointer; margin-top:16px; }
    .btn:disabled { opacity:.5; cursor:not-allowed; }
    #records { list-style:none; padding:0; margin:16px 0 0 0; }
    #records li { padding:6px 0; border-bottom:1px solid var(--border); font-size:14px; }
    .merged { color:var(--ok); }
    .only_a, .only_b { color:var(--warn); }
    .failed, .error { color:var(--err); }
    @media (max-width: 720px) { .parts { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <h1>PDF Merger: Match by Filename (Part A + Part B)</h1>

  <form id="mergeForm" enctype="multipart/form-data">
    <div class="parts">
      <div class="box">
        <h3>Part A</h3>
        <input id="partA" type="file" name="{{.FieldA}}" accept="{{.Accept}}" multiple>
        <div class="muted">Upload all PDFs from the Part A folder.</div>
      </div>
      <div class="box">
        <h3>Part B</h3>
        <input id="partB" type="file" name="{{.FieldB}}" accept="{{.Accept}}" multiple>
        <div class="muted">Upload all PDFs from the Part B folder.</div>
      </div>
    </div>
    <button id="mergeBtn" class="btn" type="submit" disabled>Merge Matching PDFs</button>
    <div class="muted">Merged files are bundled into <code>{{.ArchiveName}}</code>.</div>
  </form>

  <div id="status" class="muted" style="margin-top:12px;"></div>
  <ul id="records"></ul>
  <div id="download"></div>

<script>
  const form = document.getElementById('mergeForm');
  const btn = document.getElementById('mergeBtn');
  const partA = document.getElementById('partA');
  const partB = document.getElementById('partB');
  const statusBox = document.getElementById('status');
  const list = document.getElementById('records');
  const dl = document.getElementById('download');

  // the merge only runs once both sides have files
  function refresh() {
    btn.disabled = !(partA.files.length > 0 && partB.files.length > 0);
  }
  partA.addEventListener('change', refresh);
  partB.addEventListener('change', refresh);

  function addLine(cls, text) {
    const li = document.createElement('li');
    li.className = cls;
    li.textContent = text;
    list.appendChild(li);
  }

  form.addEventListener('submit', async (e) => {
    e.preventDefault();
    list.innerHTML = '';
    dl.innerHTML = '';
    btn.disabled = true;
    statusBox.textContent = 'Merging...';

    try {
      const resp = await fetch('/merge', { method: 'POST', body: new FormData(form) });
      const data = await resp.json();
      if (!resp.ok) {
        statusBox.textContent = '';
        addLine('error', data.error || 'Merge error');
        if (data.fields) {
          Object.keys(data.fields).forEach(k => addLine('error', k + ': ' + data.fields[k]));
        }
        return;
      }

      (data.records || []).forEach(r => {
        addLine(r.status, r.reason ? r.message + ' (' + r.reason + ')' : r.message);
      });
      const s = data.summary;
      statusBox.textContent = s.merged + ' merged, ' + s.failed + ' failed, ' + (s.only_a + s.only_b) + ' skipped';

      const raw = atob(data.archive.data || '');
      const bytes = new Uint8Array(raw.length);
      for (let i = 0; i < raw.length; i++) bytes[i] = raw.charCodeAt(i);
      const url = URL.createObjectURL(new Blob([bytes], { type: data.archive.mime }));
      const a = document.createElement('a');
      a.href = url;
      a.download = data.archive.name;
      a.textContent = 'Download ' + data.archive.name;
      a.className = 'btn';
      a.style.display = 'inline-block';
      a.style.textDecoration = 'none';
      dl.appendChild(a);
    } catch (err) {
      statusBox.textContent = '';
      addLine('error', String(err));
    } finally {
      refresh();
    }
  });
</script>
</body>
</html>
`))
