package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/drive/v3"
)

// WorkspaceScopes are the scopes the Drive publisher and calendar need.
var WorkspaceScopes = []string{drive.DriveFileScope, calendar.CalendarEventsScope}

// TokenSource returns credentials for the student's Drive and Calendar. With
// a token file it refreshes the stored user token through the OAuth client;
// without one it falls back to application default credentials.
func TokenSource(ctx context.Context, clientID, clientSecret, tokenFile string) (oauth2.TokenSource, error) {
	if tokenFile == "" {
		ts, err := google.DefaultTokenSource(ctx, WorkspaceScopes...)
		if err != nil {
			return nil, fmt.Errorf("default credentials: %w", err)
		}
		return ts, nil
	}

	tok, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       WorkspaceScopes,
	}
	return conf.TokenSource(ctx, tok), nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s holds no access or refresh token", path)
	}
	return &tok, nil
}
