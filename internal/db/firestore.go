package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/israelbalbino/backend-fastprint/internal/config"
)

func Connect(ctx context.Context, cfg config.Config) (*firestore.Client, error) {
	creds, err := serviceAccountJSON(cfg.FirebaseProjectID, cfg.FirebaseClientEmail, cfg.FirebasePrivateKey)
	if err != nil {
		return nil, fmt.Errorf("db: build credentials: %w", err)
	}

	client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("db: connect firestore: %w", err)
	}
	return client, nil
}

func serviceAccountJSON(projectID, clientEmail, privateKey string) ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":       "service_account",
		"project_id": projectID,
		// env files carry the key with literal \n escapes
		"private_key":  strings.ReplaceAll(privateKey, `\n`, "\n"),
		"client_email": clientEmail,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}
