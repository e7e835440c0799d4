package email

import (
	"bytes"
	"html/template"
)

// BaseEmailData contains data for the base email wrapper
type BaseEmailData struct {
	Content template.HTML
	Subject string
}

// baseEmailTemplate is the reusable wrapper for all emails
const baseEmailTemplate = `
<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Subject}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #1f2937;
            margin: 0;
            padding: 0;
            background-color: #f3f4f6;
        }
        .email-wrapper {
            max-width: 560px;
            margin: 0 auto;
            background-color: #ffffff;
        }
        .header {
            background-color: #111827;
            color: #ffffff;
            padding: 20px 30px;
            font-size: 20px;
            font-weight: 600;
        }
        .content {
            padding: 30px;
        }
        .button {
            display: inline-block;
            padding: 12px 24px;
            background-color: #111827;
            color: #ffffff !important;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 600;
        }
        .muted {
            color: #6b7280;
            font-size: 13px;
            word-break: break-all;
        }
        .footer {
            padding: 20px 30px;
            font-size: 12px;
            color: #9ca3af;
            border-top: 1px solid #e5e7eb;
        }
    </style>
</head>
<body>
    <div class="email-wrapper">
        <div class="header">Zenbild</div>

        <!-- Email Content -->
        <div class="content">
            {{.Content}}
        </div>

        <div class="footer">
            Você recebeu este email porque alguém pediu um link de acesso ao Zenbild.
            Se não foi você, ignore esta mensagem.
        </div>
    </div>
</body>
</html>
`

var baseTmpl = template.Must(template.New("base").Parse(baseEmailTemplate))

// WrapEmailContent wraps content in the base email template
func WrapEmailContent(content string, subject string) (string, error) {
	data := BaseEmailData{
		Content: template.HTML(content),
		Subject: subject,
	}

	var result bytes.Buffer
	if err := baseTmpl.Execute(&result, data); err != nil {
		return "", err
	}

	return result.String(), nil
}
