package googleservice

import (
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// NewInstalledAppConfig parses a client secret file the way desktop clients
// do, without contacting google.
func NewInstalledAppConfig(credentials []byte, scopes ...string) (*oauth2.Config, error) {
	config, err := google.ConfigFromJSON(credentials, scopes...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse client secret file to config")
	}

	return config, nil
}
