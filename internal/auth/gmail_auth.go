package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// GetGmailClient builds an HTTP client allowed to send mail on behalf of the
// account in tokenFile. When tokenFile is missing the operator is asked to
// authorize through prompt and the token is saved for next time.
func GetGmailClient(ctx context.Context, credentialsFile, tokenFile string, prompt io.ReadWriter) (*http.Client, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "read client secret file")
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, errors.Wrap(err, "parse client secret file")
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		if prompt == nil {
			return nil, errors.Wrapf(err, "no usable token in %s", tokenFile)
		}
		tok, err = getTokenFromWeb(ctx, config, prompt)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

// getTokenFromWeb prints the consent URL and exchanges the pasted code.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, prompt io.ReadWriter) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(prompt, "Open this link to authorize Gmail sending:\n%v\n", authURL)
	fmt.Fprint(prompt, "Paste the code here: ")

	var authCode string
	if _, err := fmt.Fscan(prompt, &authCode); err != nil {
		return nil, errors.Wrap(err, "read authorization code")
	}

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, errors.Wrap(err, "exchange authorization code")
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "cache oauth token")
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
