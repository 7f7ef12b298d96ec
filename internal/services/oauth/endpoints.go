// Package oauth talks to a cluster's OpenShift OAuth server: it finds an
// identity provider that accepts the user and scrapes a bearer token from
// the token display pages.
package oauth

import (
	"fmt"
	"net/url"
	"strings"

	cerrors "ocl/internal/errors"
)

// ClientID is the OAuth client the browser token flow is registered under.
const ClientID = "openshift-browser-client"

const (
	oauthPrefix           = "oauth-openshift."
	hypershiftOAuthPrefix = "oauth."

	consoleLabels           = 1
	hypershiftConsoleLabels = 3
)

// Host derives the OAuth server host from a console URL by replacing its
// leading labels.
//
//	https://console-openshift-console.apps.prod1.example.com -> oauth-openshift.apps.prod1.example.com
func Host(consoleURL string, hypershift bool) (string, error) {
	prefix, drop := oauthPrefix, consoleLabels
	if hypershift {
		prefix, drop = hypershiftOAuthPrefix, hypershiftConsoleLabels
	}

	parts := strings.Split(strings.TrimRight(consoleURL, "/"), ".")
	if len(parts) <= drop {
		return "", cerrors.NewValidationError("consoleUrl", consoleURL, "format",
			fmt.Sprintf("console URL needs more than %d dot-separated labels", drop))
	}
	return prefix + strings.Join(parts[drop:], "."), nil
}

// DisplayURL is the page that shows a freshly issued token.
func DisplayURL(host string) string {
	return "https://" + host + "/oauth/token/display"
}

// TokenRequestURL is the hypershift page that issues a token directly.
func TokenRequestURL(host string) string {
	return "https://" + host + "/oauth/token/request"
}

// AuthorizeURL starts the authorization code flow for idp.
// Parameter order and encoding follow what the OAuth server's own
// "Display Token" link produces.
func AuthorizeURL(host, idp string) string {
	return fmt.Sprintf("https://%s/oauth/authorize?client_id=%s&idp=%s&redirect_uri=%s&response_type=code",
		host, ClientID, url.QueryEscape(idp), url.QueryEscape(DisplayURL(host)))
}
