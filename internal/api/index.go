package api

import "net/http"

// indexHTML is a minimal upload page for manual use; the JSON API under /api
// is the real surface.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>chemscribe</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; }
fieldset { margin-bottom: 1rem; }
</style>
</head>
<body>
<h1>chemscribe</h1>
<p>Recognize chemistry notation from images and download it as .docx.</p>
<fieldset>
<legend>API key</legend>
<input id="key" type="password" placeholder="Mistral API key" size="40">
<button onclick="setKey()">Save</button>
<button onclick="clearKey()">Clear</button>
<span id="key-status"></span>
</fieldset>
<form id="process" enctype="multipart/form-data">
<fieldset>
<legend>Process images</legend>
<input type="file" name="files" multiple accept="image/*,.pdf"><br><br>
<label>Mode
<select name="mode">
<option value="ViT">ViT</option>
<option value="OCR">OCR</option>
</select>
</label>
<label>Vision model
<select name="vit_model">
<option value="pixtral-large-latest">high (pixtral-large)</option>
<option value="pixtral-12b">small (pixtral-12b)</option>
</select>
</label>
<button type="submit">Process</button>
</fieldset>
</form>
<ul id="results"></ul>
<script>
async function setKey() {
  const key = document.getElementById('key').value;
  const resp = await fetch('/api/set-key', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({api_key: key})
  });
  const body = await resp.json();
  document.getElementById('key-status').textContent = body.message || body.error;
}
async function clearKey() {
  const resp = await fetch('/api/clear-key', {method: 'POST'});
  const body = await resp.json();
  document.getElementById('key-status').textContent = body.message || body.error;
}
document.getElementById('process').addEventListener('submit', async (e) => {
  e.preventDefault();
  const resp = await fetch('/api/process', {method: 'POST', body: new FormData(e.target)});
  const body = await resp.json();
  const list = document.getElementById('results');
  list.innerHTML = '';
  for (const doc of body.documents || []) {
    const li = document.createElement('li');
    if (doc.download_url) {
      const a = document.createElement('a');
      a.href = doc.download_url;
      a.textContent = doc.filename;
      li.appendChild(a);
    } else {
      li.textContent = doc.filename + ': ' + doc.error;
    }
    list.appendChild(li);
  }
  if (body.error) {
    const li = document.createElement('li');
    li.textContent = body.error;
    list.appendChild(li);
  }
});
</script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
