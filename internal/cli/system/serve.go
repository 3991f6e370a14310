package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/narrator"
	"github.com/julianstephens/lifemap/internal/proxy"
)

// ServeCmd runs the narrator proxy in the foreground.
type ServeCmd struct {
	Addr       string        `help:"Listen address." default:"${proxy_addr}"`
	Secret     string        `help:"Shared secret required in the X-Lifemap-Secret header. Generated when empty." env:"LIFEMAP_PROXY_SECRET"`
	BaseURL    string        `help:"OpenAI-compatible API base URL." default:"${narrator_base_url}" env:"LIFEMAP_NARRATOR_BASE_URL"`
	Model      string        `help:"Completion model." default:"${narrator_model}" env:"LIFEMAP_NARRATOR_MODEL"`
	Timeout    time.Duration `help:"Deadline for one completion." default:"30s"`
	NoLockfile bool          `help:"Do not advertise the proxy through the lockfile."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	proxy.LoadEnv()

	apiKey, err := narrator.ResolveAPIKey()
	if err != nil {
		return err
	}
	client, err := narrator.NewOpenAIClient(narrator.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: c.BaseURL,
		Model:   c.Model,
	})
	if err != nil {
		return err
	}

	cfg := proxy.Config{
		Addr:   c.Addr,
		Secret: c.Secret,
	}
	if !c.NoLockfile {
		if cfg.Secret == "" {
			cfg.Secret = proxy.NewSecret()
		}
		lockfile, err := narrator.LockfilePath()
		if err != nil {
			return fmt.Errorf("failed to locate lockfile: %w", err)
		}
		cfg.Lockfile = lockfile
	}

	fmt.Printf("Narrator proxy on %s (model %s). Press Ctrl+C to stop.\n", c.Addr, c.Model)
	srv := proxy.New(narrator.New(narrator.NewCompleterProcessor(client), c.Timeout), cfg)
	return srv.ListenAndServe(ctx.Background())
}

// ServeVars are the kong variables referenced by ServeCmd defaults.
func ServeVars() map[string]string {
	return map[string]string{
		"proxy_addr":        constants.ProxyDefaultAddr,
		"narrator_base_url": constants.DefaultNarratorBaseURL,
		"narrator_model":    constants.DefaultNarratorModel,
	}
}
