package projects

import (
	"net/url"

	"github.com/a-h/templ"
	"github.com/zenbild/zenbild-web/views/helpers"
)

// UploadStatus values carried in the ?upload= query after a form upload
const (
	UploadDone   = "uploaded"
	UploadFailed = "failed"
)

var uploadMessages = map[string]string{
	UploadDone:   "Arquivo enviado com sucesso.",
	UploadFailed: "Falha no envio do arquivo.",
}

// project ids come from the backend and may hold any character
func projectURL(id string) templ.SafeURL {
	return templ.URL("/projects/" + url.PathEscape(id))
}

func uploadURL(id string) templ.SafeURL {
	return templ.URL("/projects/" + url.PathEscape(id) + "/uploads")
}

func uploadStatusClasses(status string) string {
	base := "mt-2 text-sm text-gray-600"
	if status == UploadFailed {
		return helpers.Classes(base, "text-red-600")
	}
	return base
}
