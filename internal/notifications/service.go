package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/feedback-insights/dashboard/internal/config"
	"github.com/feedback-insights/dashboard/internal/models"
)

// Service handles sending digests via the configured channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// WebhookMessage is a MessageCard-style payload for chat webhooks
type WebhookMessage struct {
	Type     string           `json:"@type"`
	Context  string           `json:"@context"`
	Title    string           `json:"title"`
	Text     string           `json:"text"`
	Sections []WebhookSection `json:"sections,omitempty"`
}

type WebhookSection struct {
	ActivityTitle string        `json:"activityTitle,omitempty"`
	ActivityText  string        `json:"activityText,omitempty"`
	Facts         []WebhookFact `json:"facts,omitempty"`
	Markdown      bool          `json:"markdown,omitempty"`
}

type WebhookFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendDigest sends a digest via the configured notification channels
func (s *Service) SendDigest(digest *models.Digest) error {
	var errors []string

	if s.config.WebhookURL != "" {
		if err := s.sendToWebhook(digest); err != nil {
			logrus.Errorf("Failed to send webhook notification: %v", err)
			errors = append(errors, fmt.Sprintf("Webhook: %v", err))
		} else {
			logrus.Info("Successfully sent digest to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(digest); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToWebhook(digest *models.Digest) error {
	message := s.buildWebhookMessage(digest)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.WebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send webhook message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildWebhookMessage(digest *models.Digest) *WebhookMessage {
	generatedAt := time.UnixMilli(digest.GeneratedAt).UTC()

	message := &WebhookMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Feedback Digest - %s", strings.Title(digest.Period)),
		Text:    fmt.Sprintf("%d feedback events in the last %s", digest.TotalEvents, digest.Period),
	}

	facts := []WebhookFact{
		{Name: "Total Events", Value: fmt.Sprintf("%d", digest.TotalEvents)},
		{Name: "Generated", Value: generatedAt.Format("2006-01-02 15:04:05 UTC")},
		{Name: "Critical Issues (24h)", Value: fmt.Sprintf("%d", digest.Analysis.TopIssues.Count)},
		{Name: "Positive Mentions (24h)", Value: fmt.Sprintf("%d", digest.Analysis.TopFeatures.Count)},
	}
	message.Sections = append(message.Sections, WebhookSection{
		ActivityTitle: "Summary",
		Facts:         facts,
		Markdown:      true,
	})

	if len(digest.Analysis.TopIssues.Keywords) > 0 {
		var problems []string
		for _, kw := range digest.Analysis.TopIssues.Keywords {
			problems = append(problems, fmt.Sprintf("**%s** ×%d", kw.Word, kw.Count))
		}
		message.Sections = append(message.Sections, WebhookSection{
			ActivityTitle: "Most Reported Problems",
			ActivityText:  strings.Join(problems, " · "),
			Markdown:      true,
		})
	}

	if len(digest.Analysis.TopFeatures.Keywords) > 0 {
		var features []string
		for _, kw := range digest.Analysis.TopFeatures.Keywords {
			features = append(features, fmt.Sprintf("**%s** ×%d", kw.Word, kw.Count))
		}
		message.Sections = append(message.Sections, WebhookSection{
			ActivityTitle: "Top Performing Features",
			ActivityText:  strings.Join(features, " · "),
			Markdown:      true,
		})
	}

	var channelLines []string
	for _, channel := range models.Channels {
		stats, ok := digest.ChannelStats[channel.ID]
		if !ok {
			continue
		}
		trend := "📉"
		if stats.IsPositiveTrend {
			trend = "📈"
		}
		channelLines = append(channelLines, fmt.Sprintf("**%s**: %d today / %d total, score %+.1f %s",
			channel.Name, stats.Daily, stats.Total, stats.TodayScore, trend))
	}
	if len(channelLines) > 0 {
		message.Sections = append(message.Sections, WebhookSection{
			ActivityTitle: "Channels",
			ActivityText:  strings.Join(channelLines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(digest *models.Digest) error {
	subject := fmt.Sprintf("Feedback Digest - %s (%d events)",
		strings.Title(digest.Period), digest.TotalEvents)

	htmlBody, err := s.buildEmailHTML(digest)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	textBody := s.buildEmailText(digest)

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Feedback Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #f97316; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .sample { border-left: 4px solid #f97316; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .sample-meta { color: #666; font-size: 0.9em; }
        .positive { border-left-color: #107c10; }
        .negative { border-left-color: #d13438; }
        .keyword { display: inline-block; background-color: #eee; padding: 2px 8px; margin: 2px; border-radius: 10px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Feedback Digest</h1>
        <p>{{.Period | title}} digest generated on {{.GeneratedAt | formatMillis}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Events:</strong> {{.TotalEvents}}</p>
        <p><strong>Critical Issues (24h):</strong> {{.Analysis.TopIssues.Count}}</p>
        <p><strong>Positive Mentions (24h):</strong> {{.Analysis.TopFeatures.Count}}</p>
    </div>

    {{if .Analysis.TopIssues.Keywords}}
    <h2>Most Reported Problems</h2>
    {{range .Analysis.TopIssues.Keywords}}<span class="keyword">{{.Word}} ×{{.Count}}</span>{{end}}
    {{end}}

    {{range .Analysis.TopIssues.Samples}}
    <div class="sample negative">
        <p>{{.Text | truncate 200}}</p>
        <div class="sample-meta">{{.Channel | channelName}}</div>
    </div>
    {{end}}

    {{if .Analysis.TopFeatures.Keywords}}
    <h2>Top Performing Features</h2>
    {{range .Analysis.TopFeatures.Keywords}}<span class="keyword">{{.Word}} ×{{.Count}}</span>{{end}}
    {{end}}

    {{range .Analysis.TopFeatures.Samples}}
    <div class="sample positive">
        <p>{{.Text | truncate 200}}</p>
        <div class="sample-meta">{{.Channel | channelName}}</div>
    </div>
    {{end}}

    <hr>
    <p><small>This digest was generated automatically by the Feedback Insights Dashboard.</small></p>
</body>
</html>
`

func (s *Service) buildEmailHTML(digest *models.Digest) (string, error) {
	t := template.New("email").Funcs(template.FuncMap{
		"title":       strings.Title,
		"channelName": models.ChannelName,
		"formatMillis": func(ms int64) string {
			return time.UnixMilli(ms).UTC().Format("January 2, 2006 at 3:04 PM UTC")
		},
		"truncate": func(length int, s string) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
	})

	t, err := t.Parse(emailTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, digest); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Service) buildEmailText(digest *models.Digest) string {
	var text strings.Builder

	generatedAt := time.UnixMilli(digest.GeneratedAt).UTC()

	text.WriteString(fmt.Sprintf("Feedback Digest - %s\n", strings.Title(digest.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Total Events: %d\n", digest.TotalEvents))
	text.WriteString(fmt.Sprintf("Critical Issues (24h): %d\n", digest.Analysis.TopIssues.Count))
	text.WriteString(fmt.Sprintf("Positive Mentions (24h): %d\n", digest.Analysis.TopFeatures.Count))

	if len(digest.Analysis.TopIssues.Keywords) > 0 {
		text.WriteString("\nMOST REPORTED PROBLEMS\n")
		text.WriteString("======================\n")
		for _, kw := range digest.Analysis.TopIssues.Keywords {
			text.WriteString(fmt.Sprintf("- %s (x%d)\n", kw.Word, kw.Count))
		}
	}

	if len(digest.Analysis.TopFeatures.Keywords) > 0 {
		text.WriteString("\nTOP PERFORMING FEATURES\n")
		text.WriteString("=======================\n")
		for _, kw := range digest.Analysis.TopFeatures.Keywords {
			text.WriteString(fmt.Sprintf("- %s (x%d)\n", kw.Word, kw.Count))
		}
	}

	if len(digest.ChannelStats) > 0 {
		text.WriteString("\nCHANNELS\n")
		text.WriteString("========\n")
		for _, channel := range models.Channels {
			stats, ok := digest.ChannelStats[channel.ID]
			if !ok {
				continue
			}
			text.WriteString(fmt.Sprintf("%s: %d today / %d total, score %+.1f (change %+d%%)\n",
				channel.Name, stats.Daily, stats.Total, stats.TodayScore, stats.ScoreChange))
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by the Feedback Insights Dashboard.\n")

	return text.String()
}
