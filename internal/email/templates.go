package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const MagicLinkSubject = "Seu acesso ao Zenbild"

// MagicLinkData contains data for the magic link email
type MagicLinkData struct {
	Link       string
	TTLMinutes int
}

const magicLinkContent = `
<h2 style="margin-top: 0;">Entre no Zenbild</h2>
<p>Clique no botão abaixo para entrar. O link expira em {{.TTLMinutes}} minutos e só pode ser usado uma vez.</p>
<p style="margin: 28px 0;"><a class="button" href="{{.Link}}">Entrar no Zenbild</a></p>
<p class="muted">Se o botão não funcionar, copie e cole este endereço no navegador:<br>{{.Link}}</p>
`

var magicLinkTmpl = template.Must(template.New("magic_link").Parse(magicLinkContent))

// RenderMagicLinkEmail renders the HTML body of the magic link email
func RenderMagicLinkEmail(data MagicLinkData) (string, error) {
	var content bytes.Buffer
	if err := magicLinkTmpl.Execute(&content, data); err != nil {
		return "", fmt.Errorf("failed to render magic link email: %w", err)
	}

	return WrapEmailContent(content.String(), MagicLinkSubject)
}

// RenderMagicLinkText renders the plain-text body
func RenderMagicLinkText(data MagicLinkData) string {
	return fmt.Sprintf("Use este link para entrar (expira em %d min): %s", data.TTLMinutes, data.Link)
}
