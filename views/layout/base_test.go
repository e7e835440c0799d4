package layout

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestBase(t *testing.T) {
	body := templ.Raw(`<p id="body">conteúdo</p>`)

	t.Run("renders head and body", func(t *testing.T) {
		meta := PageMeta{
			Title:        "Projetos | Zenbild",
			Description:  `Obras "em dia"`,
			CanonicalURL: "https://app.zenbild.com/projects",
			NoIndex:      true,
		}
		html := renderString(t, Base(meta, body))
		assert.Contains(t, html, `<html lang="pt-BR">`)
		assert.Contains(t, html, "<title>Projetos | Zenbild</title>")
		assert.Contains(t, html, `content="Obras &#34;em dia&#34;"`)
		assert.Contains(t, html, `<link rel="canonical" href="https://app.zenbild.com/projects">`)
		assert.Contains(t, html, `<meta name="robots" content="noindex">`)
		assert.Contains(t, html, `<main class="mx-auto max-w-5xl p-6"><p id="body">conteúdo</p></main>`)
	})

	t.Run("optional head tags are omitted", func(t *testing.T) {
		html := renderString(t, Base(PageMeta{Title: "Zenbild"}, body))
		assert.NotContains(t, html, `rel="canonical"`)
		assert.NotContains(t, html, "noindex")
	})

	t.Run("unsafe canonical urls are neutralised", func(t *testing.T) {
		html := renderString(t, Base(PageMeta{CanonicalURL: "javascript:alert(1)"}, body))
		assert.NotContains(t, html, "javascript:")
	})
}

func TestMessage(t *testing.T) {
	html := renderString(t, Message(PageMeta{Title: "Erro"}, "Projeto não encontrado", "<script>x</script>"))
	assert.Contains(t, html, "Projeto não encontrado")
	assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt;")
	assert.Contains(t, html, `href="/projects"`)
}
