package pricing

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/passprove/verification-node/internal/config"
	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/log"
)

// DefaultPlan is the fallback pricing plan used when a shop's plan has no
// specific price for a method
const DefaultPlan = "default"

// ErrPriceNotConfigured is returned when neither the shop's plan nor the
// default plan carries a price for the method
var ErrPriceNotConfigured = errors.New("no price configured for verification method")

// PlanPrices maps a pricing plan name to the price of one verification
type PlanPrices map[string]float64

// Settings is the price book: per verification method, the price under each
// pricing plan.
type Settings map[domain.Method]PlanPrices

// Price resolves the price for method under plan, falling back to the default
// plan when the shop's plan has no specific entry.
func (s Settings) Price(method domain.Method, plan string) (float64, error) {
	plans, ok := s[method]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPriceNotConfigured, method)
	}
	if price, ok := plans[plan]; ok {
		return price, nil
	}
	if price, ok := plans[DefaultPlan]; ok {
		return price, nil
	}
	return 0, fmt.Errorf("%w: %s (plan %s)", ErrPriceNotConfigured, method, plan)
}

// DefaultSettings returns the built-in price book used when no settings file
// is configured.
func DefaultSettings() Settings {
	return Settings{
		domain.MethodBankID:         {DefaultPlan: 10.0},
		domain.MethodMojeID:         {DefaultPlan: 8.0},
		domain.MethodOCR:            {DefaultPlan: 15.0},
		domain.MethodFaceScan:       {DefaultPlan: 12.0},
		domain.MethodReverification: {DefaultPlan: 2.0},
		domain.MethodQRCode:         {DefaultPlan: 5.0},
	}
}

// SettingsFromConfig returns the settings from the configuration.
// It reads the settings from the file if the path is provided or from the
// base64 encoded file injected into the configuration via an environment
// variable. With neither present the built-in defaults apply.
func SettingsFromConfig(ctx context.Context, cfg *config.Pricing) (Settings, error) {
	var reader io.Reader
	var err error
	switch {
	case cfg.SettingsPath != "":
		reader, err = readFileFromPath(ctx, cfg.SettingsPath)
		if err != nil {
			log.Error(ctx, "cannot read pricing settings file", err)
			return nil, err
		}
	case cfg.SettingsFile != nil:
		reader, err = readBase64FileContent(ctx, *cfg.SettingsFile)
		if err != nil {
			log.Error(ctx, "cannot decode pricing settings file", err)
			return nil, err
		}
	default:
		return DefaultSettings(), nil
	}
	return ReadSettings(reader)
}

// ReadSettings parses a yaml price book
func ReadSettings(reader io.Reader) (Settings, error) {
	var settings Settings
	if err := yaml.NewDecoder(reader).Decode(&settings); err != nil {
		return nil, fmt.Errorf("could not parse pricing settings: %w", err)
	}
	for method := range settings {
		if _, ok := domain.ParseMethod(string(method)); !ok {
			return nil, fmt.Errorf("unknown verification method in pricing settings: %s", method)
		}
	}
	return settings, nil
}

func readFileFromPath(ctx context.Context, path string) (io.Reader, error) {
	if !fileExists(path) {
		log.Error(ctx, "pricing settings file not found", nil, "path", path)
		return nil, errors.New("pricing settings file not found")
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func readBase64FileContent(ctx context.Context, encoded string) (io.Reader, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		log.Error(ctx, "cannot decode base64 pricing settings", err)
		return nil, err
	}
	return strings.NewReader(string(decoded)), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
