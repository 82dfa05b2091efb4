package pricing

import (
	"context"
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passprove/verification-node/internal/config"
	"github.com/passprove/verification-node/internal/core/domain"
)

func TestPriceResolution(t *testing.T) {
	f, err := os.Open("testdata/prices.yaml")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	settings, err := ReadSettings(f)
	require.NoError(t, err)

	t.Run("plan specific price wins", func(t *testing.T) {
		price, err := settings.Price(domain.MethodBankID, "enterprise")
		require.NoError(t, err)
		assert.Equal(t, 7.5, price)
	})

	t.Run("unknown plan falls back to the default plan", func(t *testing.T) {
		price, err := settings.Price(domain.MethodBankID, "starter")
		require.NoError(t, err)
		assert.Equal(t, 10.0, price)
	})

	t.Run("method without any price", func(t *testing.T) {
		_, err := Settings{}.Price(domain.MethodBankID, "default")
		assert.ErrorIs(t, err, ErrPriceNotConfigured)
	})
}

func TestReadSettingsRejectsUnknownMethod(t *testing.T) {
	_, err := ReadSettings(strings.NewReader("palmreading:\n  default: 1.0\n"))
	assert.Error(t, err)
}

func TestSettingsFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("no configuration yields the built in price book", func(t *testing.T) {
		settings, err := SettingsFromConfig(ctx, &config.Pricing{})
		require.NoError(t, err)
		price, err := settings.Price(domain.MethodReverification, "whatever")
		require.NoError(t, err)
		assert.Equal(t, 2.0, price)
	})

	t.Run("path configuration reads the file", func(t *testing.T) {
		settings, err := SettingsFromConfig(ctx, &config.Pricing{SettingsPath: "testdata/prices.yaml"})
		require.NoError(t, err)
		price, err := settings.Price(domain.MethodOCR, "default")
		require.NoError(t, err)
		assert.Equal(t, 15.0, price)
	})

	t.Run("base64 configuration decodes the file content", func(t *testing.T) {
		raw, err := os.ReadFile("testdata/prices.yaml")
		require.NoError(t, err)
		encoded := base64.StdEncoding.EncodeToString(raw)
		settings, err := SettingsFromConfig(ctx, &config.Pricing{SettingsFile: &encoded})
		require.NoError(t, err)
		price, err := settings.Price(domain.MethodFaceScan, "default")
		require.NoError(t, err)
		assert.Equal(t, 12.0, price)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := SettingsFromConfig(ctx, &config.Pricing{SettingsPath: "testdata/nope.yaml"})
		assert.Error(t, err)
	})
}
