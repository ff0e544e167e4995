package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/recipe-chat/backend/internal/metrics"
)

// RecipeExport is a recipe as the client sends it for emailing. Optional
// fields that are missing are left out of the email.
type RecipeExport struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Ingredients  string `json:"ingredients" binding:"required"`
	Instructions string `json:"instructions" binding:"required"`
	MealType     string `json:"mealType"`
	PrepTime     *int   `json:"prepTime"`
	Servings     *int   `json:"servings"`
}

// ExportResult describes the side outputs of a recipe export.
type ExportResult struct {
	ArchiveURL string `json:"archiveUrl,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// ExportArchive keeps a copy of an exported recipe page and returns a link to it.
type ExportArchive interface {
	Store(ctx context.Context, title string, page []byte) (string, error)
}

// EmailConfig holds sender details for transactional mail.
type EmailConfig struct {
	From     string
	FromName string
	AppURL   string
}

// EmailService renders and sends transactional emails. Sends report failure
// through the returned error and never retry.
type EmailService struct {
	mailer  Mailer
	cfg     EmailConfig
	archive ExportArchive
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewEmailService creates the notifier. archive may be nil.
func NewEmailService(mailer Mailer, cfg EmailConfig, archive ExportArchive, m *metrics.Collector, logger *zap.Logger) *EmailService {
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailService{mailer: mailer, cfg: cfg, archive: archive, metrics: m, logger: logger}
}

// SendWelcomeEmail greets a user after their first sign-in.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, to, name string) error {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	body, err := renderEmail("welcome", welcomeView{Name: name, AppURL: s.cfg.AppURL})
	if err != nil {
		return err
	}
	return s.send(ctx, "welcome", to, "Welcome to Recipe Chat!", body)
}

// SendNewsletterWelcome confirms a newsletter subscription.
func (s *EmailService) SendNewsletterWelcome(ctx context.Context, to string) error {
	body, err := renderEmail("newsletter", welcomeView{AppURL: s.cfg.AppURL})
	if err != nil {
		return err
	}
	return s.send(ctx, "newsletter_welcome", to, "You're subscribed to the Recipe Chat newsletter", body)
}

// SendRecipeExport emails a formatted recipe. When an archive is configured
// the page is stored first and linked from the email; archive failures only
// produce a warning.
func (s *EmailService) SendRecipeExport(ctx context.Context, to string, recipe RecipeExport) (*ExportResult, error) {
	view := newRecipeView(recipe)
	result := &ExportResult{}

	if s.archive != nil {
		url, err := s.archiveRecipe(ctx, view)
		if err != nil {
			s.logger.Warn("failed to archive exported recipe", zap.String("title", recipe.Title), zap.Error(err))
			result.Warning = "the recipe could not be archived online"
		} else {
			view.ArchiveURL = url
			result.ArchiveURL = url
		}
	}

	body, err := renderEmail("recipe", view)
	if err != nil {
		return result, err
	}
	return result, s.send(ctx, "recipe_export", to, "Your recipe: "+recipe.Title, body)
}

func (s *EmailService) archiveRecipe(ctx context.Context, view recipeView) (string, error) {
	page, err := renderEmail("recipe", view)
	if err != nil {
		return "", err
	}
	return s.archive.Store(ctx, view.Title, []byte(page))
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	err := s.mailer.Send(ctx, EmailMessage{
		From:    s.sender(),
		To:      to,
		Subject: subject,
		HTML:    body,
	})
	s.metrics.EmailSent(kind, err)
	if err != nil {
		s.logger.Error("failed to send email", zap.String("kind", kind), zap.String("to", to), zap.Error(err))
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}
	return nil
}

func (s *EmailService) sender() string {
	if s.cfg.FromName == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
}

type welcomeView struct {
	Name   string
	AppURL string
}

type recipeView struct {
	Title        string
	Description  string
	MealType     string
	PrepTime     string
	Servings     string
	Ingredients  []string
	Instructions []string
	ArchiveURL   string
}

func newRecipeView(r RecipeExport) recipeView {
	view := recipeView{
		Title:        r.Title,
		Description:  strings.TrimSpace(r.Description),
		Ingredients:  splitLines(r.Ingredients),
		Instructions: splitLines(r.Instructions),
	}
	if mt := strings.TrimSpace(r.MealType); mt != "" {
		view.MealType = cases.Title(language.English).String(mt)
	}
	if r.PrepTime != nil && *r.PrepTime > 0 {
		view.PrepTime = FormatMinutes(*r.PrepTime)
	}
	if r.Servings != nil && *r.Servings > 0 {
		view.Servings = FormatServings(*r.Servings)
	}
	return view
}

var listMarker = regexp.MustCompile(`^(?:[-*•]\s*|\d+[.)]\s+)`)

// splitLines turns newline-delimited text into list items, dropping blank
// lines and leading bullets or step numbers.
func splitLines(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

func renderEmail(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", name, err)
	}
	return buf.String(), nil
}

var emailTemplates = template.Must(template.New("email").Parse(`
{{define "header"}}<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Recipe Chat</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background-color: #4CAF50; color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
		<h1 style="margin: 0; font-size: 28px;">🍳 Recipe Chat</h1>
		<p style="margin: 10px 0 0 0; font-size: 16px;">Your AI-Powered Recipe Companion</p>
	</div>
	<div style="background-color: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
{{end}}

{{define "footer"}}
		<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd;">
			<p style="color: #666; font-size: 12px; margin: 0;">Happy cooking! 🍳<br>The Recipe Chat Team</p>
		</div>
	</div>
</body>
</html>
{{end}}

{{define "welcome"}}{{template "header" .}}
		<h2 style="color: #4CAF50; margin-top: 0;">Welcome, {{.Name}}!</h2>
		<p>Thanks for signing in. Tell Chef AI what you feel like eating and get a recipe in seconds.</p>
		<ul style="padding-left: 20px;">
			<li>Chat about ingredients you have on hand</li>
			<li>Save the recipes you love</li>
			<li>Email any recipe to yourself for later</li>
		</ul>
		{{if .AppURL}}<div style="text-align: center; margin: 30px 0;">
			<a href="{{.AppURL}}" style="background-color: #4CAF50; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold;">Start Cooking</a>
		</div>{{end}}
{{template "footer" .}}{{end}}

{{define "newsletter"}}{{template "header" .}}
		<h2 style="color: #4CAF50; margin-top: 0;">You're on the list!</h2>
		<p>You'll get seasonal recipes, cooking tips and new features straight to your inbox.</p>
		{{if .AppURL}}<p><a href="{{.AppURL}}">Visit Recipe Chat</a></p>{{end}}
{{template "footer" .}}{{end}}

{{define "recipe"}}{{template "header" .}}
		<h2 style="color: #4CAF50; margin-top: 0;">{{.Title}}</h2>
		{{if .Description}}<p>{{.Description}}</p>{{end}}
		{{if or .MealType .PrepTime .Servings}}<p>
			{{if .MealType}}<strong>Meal:</strong> {{.MealType}}<br>{{end}}
			{{if .PrepTime}}<strong>Prep time:</strong> {{.PrepTime}}<br>{{end}}
			{{if .Servings}}<strong>Serves:</strong> {{.Servings}}{{end}}
		</p>{{end}}
		<h3 style="color: #4CAF50;">Ingredients</h3>
		<ul>{{range .Ingredients}}
			<li>{{.}}</li>{{end}}
		</ul>
		<h3 style="color: #4CAF50;">Instructions</h3>
		<ol>{{range .Instructions}}
			<li>{{.}}</li>{{end}}
		</ol>
		{{if .ArchiveURL}}<p><a href="{{.ArchiveURL}}">View this recipe online</a></p>{{end}}
{{template "footer" .}}{{end}}
`))
