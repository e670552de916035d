package server

import "html/template"

// indexTemplate is the whole UI. One form, one send at a time; the
// mode, provider, and model selectors feed straight into each send's
// routing configuration. The Gemini model choices come from
// GeminiModels; the empty option keeps the configured default.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Aether Chat</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; }
textarea { width: 100%; height: 5rem; }
#answer { white-space: pre-wrap; border: 1px solid #ccc; padding: 1rem; min-height: 4rem; }
.error { color: #b00020; }
label { margin-right: 1rem; }
</style>
</head>
<body>
<h1>Aether Chat</h1>
<p>
  <label>Provider:
    <select id="provider">
      <option value="azure-openai">Azure OpenAI</option>
      <option value="gemini">Gemini</option>
    </select>
  </label>
  <label>Model:
    <select id="model">
      <option value="">default from settings</option>
{{- range .GeminiModels}}
      <option value="{{.}}">{{.}}</option>
{{- end}}
    </select>
  </label>
  <label><input type="checkbox" id="enterprise" checked> Enterprise mode</label>
</p>
<textarea id="prompt" placeholder="Ask something"></textarea>
<p><button id="send">Send</button></p>
<div id="answer"></div>
<script>
const answer = document.getElementById("answer");
document.getElementById("send").addEventListener("click", async () => {
  answer.textContent = "…";
  answer.classList.remove("error");
  const resp = await fetch("/api/chat", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({
      provider: document.getElementById("provider").value,
      model: document.getElementById("model").value,
      enterprise: document.getElementById("enterprise").checked,
      prompt: document.getElementById("prompt").value,
    }),
  });
  const data = await resp.json();
  if (!resp.ok) {
    answer.classList.add("error");
    answer.textContent = (data.kind === "configuration" ? "Configuration problem: " : "Call failed: ") + data.error;
    return;
  }
  answer.textContent = data.response;
});
</script>
</body>
</html>
`))

// indexData feeds indexTemplate.
type indexData struct {
	GeminiModels []string
}
