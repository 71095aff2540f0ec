package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
api:
  environment: development
  base_url: localhost:8080
  port: "8080"
  allowed_cors_domains:
    - http://localhost:3000
  jwt_signing_key: secret
  jwt_ttl: 2h
  timezone: Asia/Kolkata
gin:
  mode: debug
database:
  driver: postgres
postgres:
  host: localhost
  port: "5432"
  user: postgres
  password: postgres
  db: campus_events
storage:
  endpoint: ""
  bucket: ""
  access_key_id: ""
  access_key_secret: ""
  public_base_url: ""
  key_prefix: events
admin:
  email: admin@campus.edu
  password: ""
log:
  level: info
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, 2*time.Hour, conf.API.JWTTTL)
	assert.Equal(t, DriverPostgres, conf.Database.Driver)
	assert.Equal(t, "disable", conf.Postgres.SSLMode)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=campus_events sslmode=disable", conf.Postgres.DSN())
	assert.Equal(t, int64(5<<20), conf.Storage.MaxUploadSize)
	assert.Equal(t, "events", conf.Storage.KeyPrefix)
	assert.False(t, conf.Admin.Enabled())
	assert.Equal(t, "Administrator", conf.Admin.Name)

	loc, err := conf.API.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_EmptyTimezoneIsLocal(t *testing.T) {
	conf, err := Load(writeConfig(t, strings.Replace(sampleYAML, "  timezone: Asia/Kolkata\n", "", 1)))
	require.NoError(t, err)
	assert.Empty(t, conf.API.Timezone)

	loc, err := conf.API.Location()
	require.NoError(t, err)
	assert.Same(t, time.Local, loc)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "mongo")
	t.Setenv("ADMIN_PASSWORD", "Admin1234")

	conf, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, DriverMongo, conf.Database.Driver)
	assert.True(t, conf.Admin.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{name: "unknown driver", from: "driver: postgres", to: "driver: sqlite"},
		{name: "missing signing key", from: "jwt_signing_key: secret", to: `jwt_signing_key: ""`},
		{name: "unknown timezone", from: "timezone: Asia/Kolkata", to: "timezone: Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(sampleYAML, tt.from, tt.to, 1)

			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
