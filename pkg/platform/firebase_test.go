package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helmcode/inr-assistant/pkg/config"
)

func TestNewAppRequiresProjectID(t *testing.T) {
	_, err := NewApp(context.Background(), config.FirebaseConfig{APIKey: "AIza-test"})

	var cfgErr *config.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.KeyFirebaseProjectID, cfgErr.Field)
}
