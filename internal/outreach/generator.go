// Package outreach generates personalized investor outreach with Claude:
// cold emails, Twitter DMs, intro requests, follow-ups, and meeting talking
// points. Every generated artifact is saved as a markdown report and logged
// as an interaction before anything is sent.
package outreach

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chris-donut/donut-investor-pipe/internal/match"
	"github.com/chris-donut/donut-investor-pipe/internal/model"
	"github.com/chris-donut/donut-investor-pipe/internal/resilience"
	"github.com/chris-donut/donut-investor-pipe/internal/store"
	"github.com/chris-donut/donut-investor-pipe/pkg/anthropic"
)

// Type labels a kind of generated outreach.
type Type string

const (
	TypeColdEmail     Type = "cold_email"
	TypeTwitterDM     Type = "twitter_dm"
	TypeIntroRequest  Type = "intro_request"
	TypeFollowUp      Type = "follow_up"
	TypeTalkingPoints Type = "talking_points"
)

// Generated is one piece of generated outreach.
type Generated struct {
	Type     Type   `json:"type"`
	Investor string `json:"investor"`
	Subject  string `json:"subject,omitempty"`
	Content  string `json:"content"`
}

// Config tunes generation.
type Config struct {
	Model      string
	MaxTokens  int64
	ReportsDir string
	// RequestsPerMin throttles calls to the model API.
	RequestsPerMin int
	MaxRetries     int
}

// Generator produces outreach content for scored investors.
type Generator struct {
	client  anthropic.Client
	store   store.Store
	engine  *match.Engine
	profile *model.Profile
	cfg     Config
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewGenerator wires a Generator. The engine is used to rescore the
// investor at generation time so prompts always carry current reasons.
func NewGenerator(client anthropic.Client, st store.Store, engine *match.Engine, profile *model.Profile, cfg Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-5-20250929"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = "reports"
	}
	if cfg.RequestsPerMin <= 0 {
		cfg.RequestsPerMin = 20
	}

	retryCfg := resilience.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.MaxRetries
	}
	retryCfg.OnRetry = resilience.RetryLogger("anthropic", "create_message")

	return &Generator{
		client:  client,
		store:   st,
		engine:  engine,
		profile: profile,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMin)/60), 1),
		retry:   retryCfg,
	}
}

var subjectPattern = regexp.MustCompile(`(?m)^Subject:\s*(.+)$`)

// ColdEmail generates a personalized cold email. The subject is extracted
// from the generated text; a fallback subject is built from the investor's
// lead thesis tag when the model omits one.
func (g *Generator) ColdEmail(ctx context.Context, inv *model.Investor) (*Generated, error) {
	res := g.engine.Score(inv, g.profile)
	prompt := fmt.Sprintf(coldEmailUser, BuildContext(inv, res, g.profile), coldEmailTemplate)

	content, err := g.generate(ctx, coldEmailSystem, prompt)
	if err != nil {
		return nil, err
	}

	subject := ""
	if m := subjectPattern.FindStringSubmatch(content); m != nil {
		subject = m[1]
	} else {
		lead := "Crypto"
		if len(inv.Thesis) > 0 {
			lead = inv.Thesis[0]
		}
		subject = fmt.Sprintf("%s — %s for %s", g.profile.Name, g.profile.Product, lead)
	}

	return &Generated{Type: TypeColdEmail, Investor: inv.Name, Subject: subject, Content: content}, nil
}

// TwitterDM generates a short direct message.
func (g *Generator) TwitterDM(ctx context.Context, inv *model.Investor) (*Generated, error) {
	res := g.engine.Score(inv, g.profile)
	prompt := fmt.Sprintf(twitterDMUser, BuildContext(inv, res, g.profile), twitterDMTemplate)

	content, err := g.generate(ctx, twitterDMSystem, prompt)
	if err != nil {
		return nil, err
	}
	return &Generated{Type: TypeTwitterDM, Investor: inv.Name, Content: content}, nil
}

// IntroRequest generates an email asking a mutual connection for an intro.
func (g *Generator) IntroRequest(ctx context.Context, inv *model.Investor, mutualName string) (*Generated, error) {
	res := g.engine.Score(inv, g.profile)
	prompt := fmt.Sprintf(introRequestUser, mutualName, BuildContext(inv, res, g.profile), introRequestTemplate)

	content, err := g.generate(ctx, introRequestSystem, prompt)
	if err != nil {
		return nil, err
	}
	return &Generated{
		Type:     TypeIntroRequest,
		Investor: inv.Name,
		Subject:  fmt.Sprintf("Intro request: %s", inv.Name),
		Content:  content,
	}, nil
}

// FollowUp generates a follow-up email. previousContext may be empty for a
// first follow-up after cold outreach.
func (g *Generator) FollowUp(ctx context.Context, inv *model.Investor, daysSince int, previousContext string) (*Generated, error) {
	res := g.engine.Score(inv, g.profile)

	contextLine := "This is a first follow-up after initial cold outreach."
	if previousContext != "" {
		contextLine = "Previous context: " + previousContext
	}
	prompt := fmt.Sprintf(followUpUser, daysSince, contextLine, BuildContext(inv, res, g.profile), followUpTemplate)

	content, err := g.generate(ctx, followUpSystem, prompt)
	if err != nil {
		return nil, err
	}
	return &Generated{
		Type:     TypeFollowUp,
		Investor: inv.Name,
		Subject:  fmt.Sprintf("Following up — %s", g.profile.Name),
		Content:  content,
	}, nil
}

// TalkingPoints generates tailored pitch meeting talking points.
func (g *Generator) TalkingPoints(ctx context.Context, inv *model.Investor) (*Generated, error) {
	res := g.engine.Score(inv, g.profile)
	prompt := fmt.Sprintf(talkingPointsUser, BuildContext(inv, res, g.profile))

	content, err := g.generate(ctx, talkingPointsSystem, prompt)
	if err != nil {
		return nil, err
	}
	return &Generated{Type: TypeTalkingPoints, Investor: inv.Name, Content: content}, nil
}

// generate runs one rate-limited, retried model call and returns the text.
func (g *Generator) generate(ctx context.Context, system, user string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "outreach: rate limit wait")
	}

	resp, err := resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return g.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     g.cfg.Model,
			MaxTokens: g.cfg.MaxTokens,
			System:    system,
			Messages:  []anthropic.Message{{Role: "user", Content: user}},
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "outreach: generate")
	}
	if resp.Text == "" {
		return "", eris.New("outreach: empty response from model")
	}

	resp.Usage.LogCost(g.cfg.Model, "outreach")
	return resp.Text, nil
}

// SaveReport writes the outreach to a timestamped markdown file under the
// reports directory and returns the path.
func (g *Generator) SaveReport(out *Generated) (string, error) {
	if err := os.MkdirAll(g.cfg.ReportsDir, 0o755); err != nil {
		return "", eris.Wrap(err, "outreach: create reports dir")
	}

	timestamp := strings.NewReplacer(":", "-", ".", "-").Replace(time.Now().UTC().Format(time.RFC3339))
	safeName := sanitizeName(out.Investor)
	path := filepath.Join(g.cfg.ReportsDir, fmt.Sprintf("%s_%s_%s.md", safeName, out.Type, timestamp))

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s: %s\n", strings.ToUpper(strings.ReplaceAll(string(out.Type), "_", " ")), out.Investor)
	fmt.Fprintf(&sb, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))
	if out.Subject != "" {
		fmt.Fprintf(&sb, "**Subject:** %s\n\n", out.Subject)
	}
	fmt.Fprintf(&sb, "---\n\n%s\n", out.Content)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", eris.Wrapf(err, "outreach: write report %s", path)
	}
	return path, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func sanitizeName(name string) string {
	return strings.ToLower(strings.Trim(unsafeNameChars.ReplaceAllString(name, "-"), "-"))
}

// RecordInteraction logs generated outreach against the investor. Talking
// points are recorded as a note; everything else keeps its own type.
func (g *Generator) RecordInteraction(ctx context.Context, out *Generated, investorID string) error {
	itType := model.InteractionType(out.Type)
	if out.Type == TypeTalkingPoints {
		itType = model.InteractionNote
	}

	channel := "email"
	if out.Type == TypeTwitterDM {
		channel = "twitter"
	}

	err := g.store.CreateInteraction(ctx, &model.Interaction{
		InvestorID: investorID,
		Type:       itType,
		Channel:    channel,
		Subject:    out.Subject,
		Content:    out.Content,
	})
	if err != nil {
		return err
	}

	zap.L().Info("outreach recorded",
		zap.String("investor_id", investorID),
		zap.String("type", string(out.Type)))
	return nil
}
