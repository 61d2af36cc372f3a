package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	email, ok := cfg.Attribute("email")
	require.True(t, ok)
	assert.True(t, email.Required)
	assert.True(t, email.Mutable)

	for _, name := range []string{"preferred_username", "given_name", "family_name"} {
		a, ok := cfg.Attribute(name)
		require.True(t, ok, name)
		assert.False(t, a.Required, name)
		assert.True(t, a.Mutable, name)
	}
}

func TestRenderVerificationBody(t *testing.T) {
	body := Default().RenderVerificationBody("482913")
	assert.Contains(t, body, "482913")
	assert.NotContains(t, body, CodePlaceholder)
}

func TestValidatePlaceholder(t *testing.T) {
	cfg := Default()
	cfg.LoginWith.VerificationBody = "no code here"
	require.ErrorIs(t, cfg.Validate(), ErrPlaceholder)

	cfg.LoginWith.VerificationBody = CodePlaceholder + " and again " + CodePlaceholder
	require.ErrorIs(t, cfg.Validate(), ErrPlaceholder)
}

func TestValidateRejectsBadDeclarations(t *testing.T) {
	tests := map[string]func(*IdentityConfig){
		"link style":     func(c *IdentityConfig) { c.LoginWith.VerificationStyle = "LINK" },
		"empty subject":  func(c *IdentityConfig) { c.LoginWith.VerificationSubject = "" },
		"unnamed attr":   func(c *IdentityConfig) { c.Attributes = append(c.Attributes, Attribute{}) },
		"optional email": func(c *IdentityConfig) { c.Attributes[0].Required = false },
		"bad hosted ui":  func(c *IdentityConfig) { c.HostedUI = "not a url" },
		"no attributes":  func(c *IdentityConfig) { c.Attributes = nil },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestHostedURLs(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.SignInURL())

	cfg.HostedUI = "https://auth.example.com/"
	cfg.ClientID = "abc123"
	assert.Equal(t, "https://auth.example.com/login?client_id=abc123&response_type=code", cfg.SignInURL())
	assert.Equal(t, "https://auth.example.com/signup?client_id=abc123&response_type=code", cfg.SignUpURL())
}

func TestJSONShape(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	loginWith := decoded["login_with"].(map[string]any)
	assert.Equal(t, "CODE", loginWith["verification_email_style"])
	assert.Len(t, decoded["user_attributes"], 4)
	assert.NotContains(t, decoded, "hosted_ui_url")
}
