// Package auth declares the email/password identity flow that the managed
// identity service provides for the site. Nothing here verifies credentials
// or handles tokens; it only describes what the hosted service must collect
// and send.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CodePlaceholder is replaced by the numeric verification code in the
// verification email body.
const CodePlaceholder = "{####}"

const VerificationStyleCode = "CODE"

var ErrPlaceholder = errors.New("verification body must contain exactly one code placeholder")

type Attribute struct {
	Name     string `json:"name"     validate:"required"`
	Required bool   `json:"required"`
	Mutable  bool   `json:"mutable"`
}

type EmailLogin struct {
	VerificationStyle   string `json:"verification_email_style"   validate:"required,oneof=CODE"`
	VerificationSubject string `json:"verification_email_subject" validate:"required"`
	VerificationBody    string `json:"verification_email_body"    validate:"required"`
}

// IdentityConfig is the declaration handed to the identity service.
type IdentityConfig struct {
	LoginWith  EmailLogin  `json:"login_with"`
	Attributes []Attribute `json:"user_attributes" validate:"required,dive"`
	HostedUI   string      `json:"hosted_ui_url,omitempty" validate:"omitempty,url"`
	ClientID   string      `json:"client_id,omitempty"`
}

// Default is the declaration the site ships with: email is required, the
// name attributes are optional, and every attribute may be changed later.
func Default() IdentityConfig {
	return IdentityConfig{
		LoginWith: EmailLogin{
			VerificationStyle:   VerificationStyleCode,
			VerificationSubject: "Welcome to the portfolio site - verify your email",
			VerificationBody:    "Your verification code is " + CodePlaceholder + ". Enter this code to confirm your account.",
		},
		Attributes: []Attribute{
			{Name: "email", Required: true, Mutable: true},
			{Name: "preferred_username", Required: false, Mutable: true},
			{Name: "given_name", Required: false, Mutable: true},
			{Name: "family_name", Required: false, Mutable: true},
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c IdentityConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid identity config: %w", err)
	}
	if strings.Count(c.LoginWith.VerificationBody, CodePlaceholder) != 1 {
		return ErrPlaceholder
	}

	email, ok := c.Attribute("email")
	if !ok || !email.Required {
		return errors.New("invalid identity config: email attribute must be required")
	}
	return nil
}

func (c IdentityConfig) Attribute(name string) (Attribute, bool) {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// RenderVerificationBody fills the code placeholder. It is used to preview
// the email the identity service will send.
func (c IdentityConfig) RenderVerificationBody(code string) string {
	return strings.Replace(c.LoginWith.VerificationBody, CodePlaceholder, code, 1)
}

// SignInURL and SignUpURL point at the hosted UI. Both are empty when no
// hosted UI is configured.
func (c IdentityConfig) SignInURL() string {
	return c.hostedURL("login")
}

func (c IdentityConfig) SignUpURL() string {
	return c.hostedURL("signup")
}

func (c IdentityConfig) hostedURL(page string) string {
	if c.HostedUI == "" {
		return ""
	}
	u := strings.TrimRight(c.HostedUI, "/") + "/" + page
	if c.ClientID != "" {
		u += "?client_id=" + c.ClientID + "&response_type=code"
	}
	return u
}
