package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRunConfiguration(t *testing.T) {
	tests := []struct {
		rel      string
		wantName string
		wantFile string
	}{
		{"phpunit.xml", "PHPUnit", "$PROJECT_DIR$/phpunit.xml"},
		{"tests/wordpress-develop/phpunit.xml", "wordpress-develop", "$PROJECT_DIR$/tests/wordpress-develop/phpunit.xml"},
		{"packages/auth/phpunit.xml", "auth", "$PROJECT_DIR$/packages/auth/phpunit.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			rc := NewRunConfiguration(tt.rel)
			assert.Equal(t, tt.wantName, rc.Name)
			assert.Equal(t, tt.wantFile, rc.ConfigurationFile)
		})
	}
}

func TestDisplayPath(t *testing.T) {
	assert.Equal(t, "/tests/x/phpunit.xml", DisplayPath("$PROJECT_DIR$/tests/x/phpunit.xml"))
}

func TestExcludeFolderURL(t *testing.T) {
	assert.Equal(t, "file://$MODULE_DIR$/vendor/pimple/pimple", ExcludeFolderURL("vendor/pimple/pimple"))
}
