package narrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/keyring"
	"github.com/julianstephens/lifemap/internal/models"
)

// FromSettings builds the narrator selected by settings. It returns nil,
// without error, when the narrator is off.
func FromSettings(settings models.Settings) (*Narrator, error) {
	timeout := time.Duration(settings.NarratorTimeoutSec) * time.Second

	switch settings.NarratorMode {
	case constants.NarratorOff:
		return nil, nil
	case constants.NarratorOpenAI:
		apiKey, err := ResolveAPIKey()
		if err != nil {
			return nil, err
		}
		client, err := NewOpenAIClient(OpenAIConfig{
			APIKey:  apiKey,
			BaseURL: settings.NarratorBaseURL,
			Model:   settings.NarratorModel,
		})
		if err != nil {
			return nil, err
		}
		return New(NewCompleterProcessor(client), timeout), nil
	case constants.NarratorProxy, "":
		return New(NewProxyClient(settings.NarratorURL, ""), timeout), nil
	default:
		return nil, fmt.Errorf("unknown narrator mode %q", settings.NarratorMode)
	}
}

// ResolveAPIKey reads the API key from the environment, then the keyring.
func ResolveAPIKey() (string, error) {
	if key := APIKeyFromEnv(); key != "" {
		return key, nil
	}
	key, err := keyring.Get(keyring.NarratorAPIKey)
	if err == nil {
		return key, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w (set %s or run 'lifemap keyring set narrator')", ErrNoAPIKey, apiKeyEnv[0])
	}
	return "", err
}
