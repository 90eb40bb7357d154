package api

import (
	"html/template"
	"net/http"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>media-gateway</title></head>
<body>
<h1>media-gateway</h1>
<ul>
{{range .}}<li><code>{{.Path}}</code> {{.Doc}}</li>
{{end}}</ul>
</body>
</html>
`))

type endpoint struct {
	Path string
	Doc  string
}

var endpoints = []endpoint{
	{"/api/video/{id}", "video details and relayable streams"},
	{"/api/channel/{id}?page=", "channel header and one page of videos"},
	{"/api/playlist/{id}?page=", "playlist header and one page of videos"},
	{"/api/search?q=&page=", "mixed search results"},
	{"/api/trending", "trending videos"},
	{"/api/{video|channel|playlist}/{id}/summary", "a single item without its page"},
	{"/vid/{videoId}/{itag}", "stream relay"},
	{"/metrics", "Prometheus metrics"},
	{"/healthz", "liveness"},
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, endpoints)
}
